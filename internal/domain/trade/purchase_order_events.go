package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/shared"
)

// AggregateTypePurchaseOrder is the aggregate type identifier for purchase order events
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants double as transport subjects, so they use the
// dotted lower-case form.
const (
	EventTypeOrderCreated      = "trade.order.created"
	EventTypeOrderReceived     = "trade.order.received"
	EventTypeOrderConfirmed    = "trade.order.confirmed"
	EventTypeOrderTransmitted  = "trade.order.transmitted"
	EventTypeOrderAcknowledged = "trade.order.acknowledged"
	EventTypeOrderCancelled    = "trade.order.cancelled"
)

// PurchaseOrderItemInfo carries line data inside order events
type PurchaseOrderItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	LineNumber  int             `json:"line_number"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

func itemInfos(items []PurchaseOrderItem) []PurchaseOrderItemInfo {
	infos := make([]PurchaseOrderItemInfo, len(items))
	for i, item := range items {
		infos[i] = PurchaseOrderItemInfo{
			ItemID:      item.ID,
			LineNumber:  item.LineNumber,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	return infos
}

// PurchaseOrderCreatedEvent is raised when a new outbound order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber     string    `json:"order_number"`
	BuyerPartnerID  uuid.UUID `json:"buyer_partner_id"`
	SellerPartnerID uuid.UUID `json:"seller_partner_id"`
	OrderDate       time.Time `json:"order_date"`
}

// NewPurchaseOrderCreatedEvent creates a new purchase order created event
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		BuyerPartnerID:  order.BuyerPartnerID,
		SellerPartnerID: order.SellerPartnerID,
		OrderDate:       order.OrderDate,
	}
}

// EventType returns the event type
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// PurchaseOrderReceivedEvent is raised when an inbound document becomes an order
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber     string                  `json:"order_number"`
	BuyerPartnerID  uuid.UUID               `json:"buyer_partner_id"`
	SellerPartnerID uuid.UUID               `json:"seller_partner_id"`
	InterchangeRef  string                  `json:"interchange_ref"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	Items           []PurchaseOrderItemInfo `json:"items"`
}

// NewPurchaseOrderReceivedEvent creates a new purchase order received event
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReceived, AggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		BuyerPartnerID:  order.BuyerPartnerID,
		SellerPartnerID: order.SellerPartnerID,
		InterchangeRef:  order.InterchangeRef,
		TotalAmount:     order.TotalAmount,
		Items:           itemInfos(order.Items),
	}
}

// EventType returns the event type
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypeOrderReceived
}

// PurchaseOrderConfirmedEvent is raised when an order is confirmed
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string                  `json:"order_number"`
	TotalAmount decimal.Decimal         `json:"total_amount"`
	Items       []PurchaseOrderItemInfo `json:"items"`
}

// NewPurchaseOrderConfirmedEvent creates a new purchase order confirmed event
func NewPurchaseOrderConfirmedEvent(order *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		TotalAmount:     order.TotalAmount,
		Items:           itemInfos(order.Items),
	}
}

// EventType returns the event type
func (e *PurchaseOrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// PurchaseOrderTransmittedEvent is raised when an order goes out as an interchange
type PurchaseOrderTransmittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string    `json:"order_number"`
	InterchangeRef string    `json:"interchange_ref"`
	TransmittedAt  time.Time `json:"transmitted_at"`
}

// NewPurchaseOrderTransmittedEvent creates a new purchase order transmitted event
func NewPurchaseOrderTransmittedEvent(order *PurchaseOrder) *PurchaseOrderTransmittedEvent {
	transmittedAt := time.Now()
	if order.TransmittedAt != nil {
		transmittedAt = *order.TransmittedAt
	}
	return &PurchaseOrderTransmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderTransmitted, AggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		InterchangeRef:  order.InterchangeRef,
		TransmittedAt:   transmittedAt,
	}
}

// EventType returns the event type
func (e *PurchaseOrderTransmittedEvent) EventType() string {
	return EventTypeOrderTransmitted
}

// PurchaseOrderAcknowledgedEvent is raised when the partner acknowledges an order
type PurchaseOrderAcknowledgedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string `json:"order_number"`
	InterchangeRef string `json:"interchange_ref"`
}

// NewPurchaseOrderAcknowledgedEvent creates a new purchase order acknowledged event
func NewPurchaseOrderAcknowledgedEvent(order *PurchaseOrder) *PurchaseOrderAcknowledgedEvent {
	return &PurchaseOrderAcknowledgedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderAcknowledged, AggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		InterchangeRef:  order.InterchangeRef,
	}
}

// EventType returns the event type
func (e *PurchaseOrderAcknowledgedEvent) EventType() string {
	return EventTypeOrderAcknowledged
}

// PurchaseOrderCancelledEvent is raised when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string `json:"order_number"`
	Reason       string `json:"reason"`
	WasConfirmed bool   `json:"was_confirmed"`
}

// NewPurchaseOrderCancelledEvent creates a new purchase order cancelled event
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, wasConfirmed bool) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
		WasConfirmed:    wasConfirmed,
	}
}

// EventType returns the event type
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
