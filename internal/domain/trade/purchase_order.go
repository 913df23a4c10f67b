package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/edifact"
	"github.com/tradelink/backend/internal/domain/shared"
)

// maxOrderNumberLength matches the an..35 document number element of the
// wire format; longer numbers could not be transmitted.
const maxOrderNumberLength = 35

// OrderDirection tells whether an order originates here (outbound, to be
// transmitted to the seller) or arrived from a trading partner (inbound).
type OrderDirection string

const (
	OrderDirectionOutbound OrderDirection = "OUTBOUND"
	OrderDirectionInbound  OrderDirection = "INBOUND"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft        PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusConfirmed    PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusTransmitted  PurchaseOrderStatus = "TRANSMITTED"
	PurchaseOrderStatusAcknowledged PurchaseOrderStatus = "ACKNOWLEDGED"
	PurchaseOrderStatusCancelled    PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, PurchaseOrderStatusTransmitted,
		PurchaseOrderStatusAcknowledged, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusTransmitted || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusTransmitted:
		return target == PurchaseOrderStatusAcknowledged
	case PurchaseOrderStatusAcknowledged, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	// LineNumber is positive, unique within the order, and defines the
	// emission order of the line on the wire.
	LineNumber int `gorm:"not null"`
	// ProductID links the line to the catalog; nil for inbound lines whose
	// code is not (or not yet) in the catalog.
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order line
func NewPurchaseOrderItem(orderID uuid.UUID, lineNumber int, productID *uuid.UUID, productCode, productName string, quantity int, unitPrice decimal.Decimal) (*PurchaseOrderItem, error) {
	if lineNumber < 1 {
		return nil, shared.NewDomainError("INVALID_LINE_NUMBER", "Line number must be positive")
	}
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		LineNumber:  lineNumber,
		ProductID:   productID,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the line quantity and recalculates the amount
func (i *PurchaseOrderItem) UpdateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.Amount = i.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	i.UpdatedAt = time.Now()
	return nil
}

// ReceivedLine carries one decoded order line when an inbound document is
// turned into a purchase order.
type ReceivedLine struct {
	LineNumber  int
	ProductID   *uuid.UUID
	ProductCode string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// PurchaseOrder represents a purchase order aggregate root.
// Outbound orders move draft -> confirmed -> transmitted -> acknowledged,
// with cancellation possible until transmission. Inbound orders enter
// already confirmed: the trading partner sent them as original documents.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(35);not null;uniqueIndex"`
	Direction       OrderDirection      `gorm:"type:varchar(10);not null"`
	BuyerPartnerID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	SellerPartnerID uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrderDate       time.Time           `gorm:"not null"`
	Items           []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status          PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark          string              `gorm:"type:text"`
	// InterchangeRef is the message reference of the interchange that
	// carried this order, set on transmission or reception.
	InterchangeRef string `gorm:"type:varchar(35);index"`
	ConfirmedAt    *time.Time
	TransmittedAt  *time.Time
	AcknowledgedAt *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new outbound purchase order in draft status
func NewPurchaseOrder(orderNumber string, buyerPartnerID, sellerPartnerID uuid.UUID, orderDate time.Time) (*PurchaseOrder, error) {
	if err := validateOrderNumber(orderNumber); err != nil {
		return nil, err
	}
	if buyerPartnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer partner ID cannot be empty")
	}
	if sellerPartnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller partner ID cannot be empty")
	}
	if orderDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ORDER_DATE", "Order date is required")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Direction:         OrderDirectionOutbound,
		BuyerPartnerID:    buyerPartnerID,
		SellerPartnerID:   sellerPartnerID,
		OrderDate:         orderDate,
		Items:             make([]PurchaseOrderItem, 0),
		TotalAmount:       decimal.Zero,
		Status:            PurchaseOrderStatusDraft,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// NewReceivedPurchaseOrder creates a purchase order from a decoded inbound
// document. The order enters in confirmed status carrying the lines exactly
// as transmitted, including their wire line numbers.
func NewReceivedPurchaseOrder(orderNumber string, buyerPartnerID, sellerPartnerID uuid.UUID, orderDate time.Time, interchangeRef string, lines []ReceivedLine) (*PurchaseOrder, error) {
	if err := validateOrderNumber(orderNumber); err != nil {
		return nil, err
	}
	if buyerPartnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer partner ID cannot be empty")
	}
	if sellerPartnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller partner ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Received order carries no lines")
	}

	now := time.Now()
	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Direction:         OrderDirectionInbound,
		BuyerPartnerID:    buyerPartnerID,
		SellerPartnerID:   sellerPartnerID,
		OrderDate:         orderDate,
		Items:             make([]PurchaseOrderItem, 0, len(lines)),
		TotalAmount:       decimal.Zero,
		Status:            PurchaseOrderStatusConfirmed,
		InterchangeRef:    interchangeRef,
		ConfirmedAt:       &now,
	}

	seen := make(map[int]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.LineNumber]; dup {
			return nil, shared.NewDomainError("DUPLICATE_LINE", fmt.Sprintf("Line number %d appears more than once", line.LineNumber))
		}
		seen[line.LineNumber] = struct{}{}

		item, err := NewPurchaseOrderItem(order.ID, line.LineNumber, line.ProductID, line.ProductCode, line.ProductName, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}
	order.recalculateTotal()

	order.AddDomainEvent(NewPurchaseOrderReceivedEvent(order))

	return order, nil
}

func validateOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > maxOrderNumberLength {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", fmt.Sprintf("Order number cannot exceed %d characters", maxOrderNumberLength))
	}
	return nil
}

// AddItem adds a new line to the order with the next free line number
// Only allowed on outbound orders in DRAFT status
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productCode, productName string, quantity int, unitPrice decimal.Decimal) (*PurchaseOrderItem, error) {
	if o.Direction != OrderDirectionOutbound {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a received order")
	}
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	for _, item := range o.Items {
		if item.ProductID != nil && *item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, o.nextLineNumber(), &productID, productCode, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line
// Only allowed in DRAFT status
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line from the order
// Only allowed in DRAFT status
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetRemark sets the order remark
func (o *PurchaseOrder) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Confirm confirms the order, transitioning from DRAFT to CONFIRMED
// Requires at least one line
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))

	return nil
}

// MarkTransmitted records that the order went out as an interchange,
// transitioning from CONFIRMED to TRANSMITTED
func (o *PurchaseOrder) MarkTransmitted(interchangeRef string) error {
	if o.Direction != OrderDirectionOutbound {
		return shared.NewDomainError("INVALID_STATE", "Only outbound orders can be transmitted")
	}
	if !o.Status.CanTransitionTo(PurchaseOrderStatusTransmitted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transmit order in %s status", o.Status))
	}
	if interchangeRef == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "Interchange reference is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusTransmitted
	o.InterchangeRef = interchangeRef
	o.TransmittedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderTransmittedEvent(o))

	return nil
}

// Acknowledge records the trading partner's acknowledgement,
// transitioning from TRANSMITTED to ACKNOWLEDGED
func (o *PurchaseOrder) Acknowledge() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusAcknowledged) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot acknowledge order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusAcknowledged
	o.AcknowledgedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderAcknowledgedEvent(o))

	return nil
}

// Cancel cancels the order
// Allowed only before transmission (DRAFT or CONFIRMED status)
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	wasConfirmed := o.Status == PurchaseOrderStatusConfirmed
	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, wasConfirmed))

	return nil
}

// AsDocument maps the order onto the codec's document model. The caller
// resolves the partners' wire party identifiers; the aggregate stores only
// partner references.
func (o *PurchaseOrder) AsDocument(buyerParty, sellerParty string) edifact.Order {
	items := make([]edifact.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = edifact.OrderItem{
			LineNumber:  item.LineNumber,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return edifact.Order{
		Number:    o.OrderNumber,
		BuyerID:   buyerParty,
		SellerID:  sellerParty,
		OrderDate: o.OrderDate,
		Items:     items,
	}
}

// recalculateTotal recalculates the order total
func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

// nextLineNumber returns the next free line number
func (o *PurchaseOrder) nextLineNumber() int {
	next := 1
	for _, item := range o.Items {
		if item.LineNumber >= next {
			next = item.LineNumber + 1
		}
	}
	return next
}

// ItemCount returns the number of lines in the order
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

// IsDraft returns true if order is in draft status
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsConfirmed returns true if order is confirmed
func (o *PurchaseOrder) IsConfirmed() bool {
	return o.Status == PurchaseOrderStatusConfirmed
}

// IsTransmitted returns true if order has been transmitted
func (o *PurchaseOrder) IsTransmitted() bool {
	return o.Status == PurchaseOrderStatusTransmitted
}

// IsAcknowledged returns true if the partner acknowledged the order
func (o *PurchaseOrder) IsAcknowledged() bool {
	return o.Status == PurchaseOrderStatusAcknowledged
}

// IsCancelled returns true if order is cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// IsTerminal returns true if order is in a terminal state (acknowledged or cancelled)
func (o *PurchaseOrder) IsTerminal() bool {
	return o.IsAcknowledged() || o.IsCancelled()
}

// IsInbound returns true for orders received from a trading partner
func (o *PurchaseOrder) IsInbound() bool {
	return o.Direction == OrderDirectionInbound
}

// CanModify returns true if the order lines can still be changed
func (o *PurchaseOrder) CanModify() bool {
	return o.IsDraft()
}

// GetItem returns a line by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByCode returns a line by product code
func (o *PurchaseOrder) GetItemByCode(productCode string) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductCode == productCode {
			return &o.Items[idx]
		}
	}
	return nil
}
