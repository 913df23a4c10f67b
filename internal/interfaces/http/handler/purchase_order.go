package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/tradelink/backend/internal/application/trade"
)

// PurchaseOrderHandler handles purchase order-related API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// PurchaseOrderStatusSummaryResponse represents order count summary by status
type PurchaseOrderStatusSummaryResponse struct {
	Draft        int64 `json:"draft"`
	Confirmed    int64 `json:"confirmed"`
	Transmitted  int64 `json:"transmitted"`
	Acknowledged int64 `json:"acknowledged"`
	Cancelled    int64 `json:"cancelled"`
	Total        int64 `json:"total"`
}

// orderID parses the :id path parameter, answering 400 itself when the
// value is not a UUID.
func (h *PurchaseOrderHandler) orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *PurchaseOrderHandler) itemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return uuid.Nil, false
	}
	return id, true
}

// respond writes either the domain error or the order.
func (h *PurchaseOrderHandler) respond(c *gin.Context, order *tradeapp.PurchaseOrderResponse, err error) {
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Create create a new outbound purchase order with optional items
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID gets purchase order by ID
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	h.respond(c, order, err)
}

// GetByOrderNumber gets purchase order by order number
func (h *PurchaseOrderHandler) GetByOrderNumber(c *gin.Context) {
	orderNumber := c.Param("order_number")
	if orderNumber == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), orderNumber)
	h.respond(c, order, err)
}

// List retrieve a paginated list of purchase orders with optional filtering
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter := defaultOrderListFilter()
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// ListByPartner lists purchase orders for a trading partner
func (h *PurchaseOrderHandler) ListByPartner(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("partner_id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	filter := defaultOrderListFilter()
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orderService.ListByPartner(c.Request.Context(), partnerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update update a purchase order (only allowed in DRAFT status)
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req tradeapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	h.respond(c, order, err)
}

// Delete delete a purchase order (only allowed in DRAFT status)
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem add a catalog product line to a purchase order (only allowed in
// DRAFT status)
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req tradeapp.AddPurchaseOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), id, req)
	h.respond(c, order, err)
}

// UpdateItem change the quantity of a purchase order line (only allowed in
// DRAFT status)
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}
	item, ok := h.itemID(c)
	if !ok {
		return
	}

	var req tradeapp.UpdatePurchaseOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateItem(c.Request.Context(), id, item, req)
	h.respond(c, order, err)
}

// RemoveItem removes item from purchase order
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}
	item, ok := h.itemID(c)
	if !ok {
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), id, item)
	h.respond(c, order, err)
}

// Confirm confirm a purchase order, freezing its lines for encoding (DRAFT
// to CONFIRMED)
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Confirm(c.Request.Context(), id)
	h.respond(c, order, err)
}

// Acknowledge record the trading partner's acknowledgement (TRANSMITTED to
// ACKNOWLEDGED)
func (h *PurchaseOrderHandler) Acknowledge(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Acknowledge(c.Request.Context(), id)
	h.respond(c, order, err)
}

// Cancel cancel a purchase order that has not been transmitted yet
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req tradeapp.CancelPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, req)
	h.respond(c, order, err)
}

// GetStatusSummary get count of purchase orders by status for dashboard
func (h *PurchaseOrderHandler) GetStatusSummary(c *gin.Context) {
	summary, err := h.orderService.GetStatusSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, PurchaseOrderStatusSummaryResponse{
		Draft:        summary.Draft,
		Confirmed:    summary.Confirmed,
		Transmitted:  summary.Transmitted,
		Acknowledged: summary.Acknowledged,
		Cancelled:    summary.Cancelled,
		Total:        summary.Total,
	})
}

// defaultOrderListFilter returns a list filter with paging defaults applied,
// so bare list requests do not trip the min=1 binding rules.
func defaultOrderListFilter() tradeapp.PurchaseOrderListFilter {
	return tradeapp.PurchaseOrderListFilter{
		Page:     1,
		PageSize: 20,
	}
}
