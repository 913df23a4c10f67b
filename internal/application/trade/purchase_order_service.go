package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/catalog"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/domain/trade"
	"github.com/tradelink/backend/internal/infrastructure/telemetry"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo       trade.PurchaseOrderRepository
	productRepo     catalog.ProductRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo trade.PurchaseOrderRepository, productRepo catalog.ProductRepository) *PurchaseOrderService {
	return &PurchaseOrderService{orderRepo: orderRepo, productRepo: productRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *PurchaseOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new outbound purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	// Document numbers are caller-assigned and must be unique
	exists, err := s.orderRepo.ExistsByOrderNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An order with this number already exists")
	}

	orderDate := time.Now().UTC()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order, err := trade.NewPurchaseOrder(req.OrderNumber, req.BuyerPartnerID, req.SellerPartnerID, orderDate)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := s.addCatalogItem(ctx, order, item.ProductID, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, telemetry.DirectionOutbound, order.TotalAmount)
	}
	s.publishEvents(ctx, order)

	return orderResponse(order)
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return orderResponse(order)
}

// GetByOrderNumber retrieves a purchase order by order number
func (s *PurchaseOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return orderResponse(order)
}

// List retrieves a list of purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	domainFilter := filter.toDomainFilter()

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// toDomainFilter fills paging defaults and lowers the typed filter
// fields into the generic repository filter map.
func (f PurchaseOrderListFilter) toDomainFilter() shared.Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir == "" {
		f.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}

	if f.PartnerID != nil {
		domainFilter.Filters["partner_id"] = *f.PartnerID
	}
	if f.Direction != nil {
		domainFilter.Filters["direction"] = string(*f.Direction)
	}
	if f.Status != nil {
		domainFilter.Filters["status"] = string(*f.Status)
	}
	if len(f.Statuses) > 0 {
		domainFilter.Filters["statuses"] = f.Statuses
	}
	if f.StartDate != nil {
		domainFilter.Filters["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		domainFilter.Filters["end_date"] = *f.EndDate
	}
	return domainFilter
}

// ListByPartner retrieves purchase orders where the partner is buyer or seller
func (s *PurchaseOrderService) ListByPartner(ctx context.Context, partnerID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	filter.PartnerID = &partnerID
	return s.List(ctx, filter)
}

// ListByStatus retrieves purchase orders by status
func (s *PurchaseOrderService) ListByStatus(ctx context.Context, status trade.PurchaseOrderStatus, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	filter.Status = &status
	return s.List(ctx, filter)
}

// Update updates a purchase order (only allowed in DRAFT status)
func (s *PurchaseOrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(ctx context.Context, order *trade.PurchaseOrder) error {
		if !order.CanModify() {
			return shared.NewDomainError("INVALID_STATE", "Order can only be modified in draft status")
		}
		if req.Remark != nil {
			order.SetRemark(*req.Remark)
		}
		return nil
	})
}

// AddItem adds an item to a purchase order
func (s *PurchaseOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddPurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(ctx context.Context, order *trade.PurchaseOrder) error {
		return s.addCatalogItem(ctx, order, req.ProductID, req.Quantity, req.UnitPrice)
	})
}

// UpdateItem updates an item in a purchase order
func (s *PurchaseOrderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req UpdatePurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(ctx context.Context, order *trade.PurchaseOrder) error {
		return order.UpdateItemQuantity(itemID, req.Quantity)
	})
}

// RemoveItem removes an item from a purchase order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(ctx context.Context, order *trade.PurchaseOrder) error {
		return order.RemoveItem(itemID)
	})
}

// Confirm confirms a purchase order, making it eligible for encoding
func (s *PurchaseOrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(ctx context.Context, order *trade.PurchaseOrder) error {
		return order.Confirm()
	})
}

// Acknowledge marks a transmitted order as acknowledged by the partner
func (s *PurchaseOrderService) Acknowledge(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(ctx context.Context, order *trade.PurchaseOrder) error {
		return order.Acknowledge()
	})
}

// Cancel cancels a purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(ctx context.Context, order *trade.PurchaseOrder) error {
		return order.Cancel(req.Reason)
	})
}

// Delete deletes a purchase order (only allowed in DRAFT status)
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}

	return s.orderRepo.Delete(ctx, orderID)
}

// GetStatusSummary retrieves order count summary by status
func (s *PurchaseOrderService) GetStatusSummary(ctx context.Context) (*PurchaseOrderStatusSummary, error) {
	counts := make(map[trade.PurchaseOrderStatus]int64)
	var total int64
	for _, status := range []trade.PurchaseOrderStatus{
		trade.PurchaseOrderStatusDraft,
		trade.PurchaseOrderStatusConfirmed,
		trade.PurchaseOrderStatusTransmitted,
		trade.PurchaseOrderStatusAcknowledged,
		trade.PurchaseOrderStatusCancelled,
	} {
		count, err := s.orderRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts[status] = count
		total += count
	}

	return &PurchaseOrderStatusSummary{
		Draft:        counts[trade.PurchaseOrderStatusDraft],
		Confirmed:    counts[trade.PurchaseOrderStatusConfirmed],
		Transmitted:  counts[trade.PurchaseOrderStatusTransmitted],
		Acknowledged: counts[trade.PurchaseOrderStatusAcknowledged],
		Cancelled:    counts[trade.PurchaseOrderStatusCancelled],
		Total:        total,
	}, nil
}

// mutate loads the order, applies fn, and persists with optimistic
// locking. Events raised by the aggregate are published after the
// save succeeds.
func (s *PurchaseOrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(context.Context, *trade.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := fn(ctx, order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	return orderResponse(order)
}

// addCatalogItem resolves a product from the catalog and adds it as an order line.
// The unit price defaults to the catalog price unless an override is given.
func (s *PurchaseOrderService) addCatalogItem(ctx context.Context, order *trade.PurchaseOrder, productID uuid.UUID, quantity int, unitPriceOverride *decimal.Decimal) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	unitPrice := product.UnitPrice
	if unitPriceOverride != nil {
		unitPrice = *unitPriceOverride
	}

	_, err = order.AddItem(product.ID, product.SKU, product.Name, quantity, unitPrice)
	return err
}

func orderResponse(order *trade.PurchaseOrder) (*PurchaseOrderResponse, error) {
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// publishEvents publishes domain events from the aggregate
func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *trade.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}

	for _, event := range order.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
