package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradelink/backend/internal/domain/trade"
)

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	OrderNumber     string                         `json:"order_number" binding:"required,min=1,max=35"`
	BuyerPartnerID  uuid.UUID                      `json:"buyer_partner_id" binding:"required"`
	SellerPartnerID uuid.UUID                      `json:"seller_partner_id" binding:"required"`
	OrderDate       *time.Time                     `json:"order_date"`
	Items           []CreatePurchaseOrderItemInput `json:"items"`
	Remark          string                         `json:"remark"`
}

// CreatePurchaseOrderItemInput represents an item in the create order request
type CreatePurchaseOrderItemInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"` // Optional: overrides the catalog price
}

// UpdatePurchaseOrderRequest represents a request to update a purchase order (only in DRAFT status)
type UpdatePurchaseOrderRequest struct {
	Remark *string `json:"remark"`
}

// AddPurchaseOrderItemRequest represents a request to add an item to a purchase order
type AddPurchaseOrderItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"` // Optional: overrides the catalog price
}

// UpdatePurchaseOrderItemRequest represents a request to update a purchase order item
type UpdatePurchaseOrderItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CancelPurchaseOrderRequest represents a request to cancel a purchase order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderListFilter represents filter options for purchase order list
type PurchaseOrderListFilter struct {
	Search    string                     `form:"search"`
	PartnerID *uuid.UUID                 `form:"partner_id"`
	Direction *trade.OrderDirection      `form:"direction"`
	Status    *trade.PurchaseOrderStatus `form:"status"`
	Statuses  []string                   `form:"statuses"`
	StartDate *time.Time                 `form:"start_date"`
	EndDate   *time.Time                 `form:"end_date"`
	Page      int                        `form:"page" binding:"min=1"`
	PageSize  int                        `form:"page_size" binding:"min=1,max=100"`
	OrderBy   string                     `form:"order_by"`
	OrderDir  string                     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID              uuid.UUID                   `json:"id"`
	OrderNumber     string                      `json:"order_number"`
	Direction       string                      `json:"direction"`
	BuyerPartnerID  uuid.UUID                   `json:"buyer_partner_id"`
	SellerPartnerID uuid.UUID                   `json:"seller_partner_id"`
	OrderDate       time.Time                   `json:"order_date"`
	Items           []PurchaseOrderItemResponse `json:"items"`
	ItemCount       int                         `json:"item_count"`
	TotalAmount     decimal.Decimal             `json:"total_amount"`
	Status          string                      `json:"status"`
	Remark          string                      `json:"remark,omitempty"`
	InterchangeRef  string                      `json:"interchange_ref,omitempty"`
	ConfirmedAt     *time.Time                  `json:"confirmed_at,omitempty"`
	TransmittedAt   *time.Time                  `json:"transmitted_at,omitempty"`
	AcknowledgedAt  *time.Time                  `json:"acknowledged_at,omitempty"`
	CancelledAt     *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason    string                      `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	Version         int                         `json:"version"`
}

// PurchaseOrderListItemResponse represents a purchase order in list responses (less detail)
type PurchaseOrderListItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Direction       string          `json:"direction"`
	BuyerPartnerID  uuid.UUID       `json:"buyer_partner_id"`
	SellerPartnerID uuid.UUID       `json:"seller_partner_id"`
	OrderDate       time.Time       `json:"order_date"`
	ItemCount       int             `json:"item_count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	InterchangeRef  string          `json:"interchange_ref,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	TransmittedAt   *time.Time      `json:"transmitted_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PurchaseOrderItemResponse represents a purchase order item in API responses
type PurchaseOrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	LineNumber  int             `json:"line_number"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PurchaseOrderStatusSummary represents a summary of purchase orders by status
type PurchaseOrderStatusSummary struct {
	Draft        int64 `json:"draft"`
	Confirmed    int64 `json:"confirmed"`
	Transmitted  int64 `json:"transmitted"`
	Acknowledged int64 `json:"acknowledged"`
	Cancelled    int64 `json:"cancelled"`
	Total        int64 `json:"total"`
}

// ToPurchaseOrderResponse converts domain PurchaseOrder to response DTO
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToPurchaseOrderItemResponse(&order.Items[i])
	}

	return PurchaseOrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Direction:       string(order.Direction),
		BuyerPartnerID:  order.BuyerPartnerID,
		SellerPartnerID: order.SellerPartnerID,
		OrderDate:       order.OrderDate,
		Items:           items,
		ItemCount:       order.ItemCount(),
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		Remark:          order.Remark,
		InterchangeRef:  order.InterchangeRef,
		ConfirmedAt:     order.ConfirmedAt,
		TransmittedAt:   order.TransmittedAt,
		AcknowledgedAt:  order.AcknowledgedAt,
		CancelledAt:     order.CancelledAt,
		CancelReason:    order.CancelReason,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		Version:         order.Version,
	}
}

// ToPurchaseOrderListItemResponse converts domain PurchaseOrder to list response DTO
func ToPurchaseOrderListItemResponse(order *trade.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Direction:       string(order.Direction),
		BuyerPartnerID:  order.BuyerPartnerID,
		SellerPartnerID: order.SellerPartnerID,
		OrderDate:       order.OrderDate,
		ItemCount:       order.ItemCount(),
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		InterchangeRef:  order.InterchangeRef,
		ConfirmedAt:     order.ConfirmedAt,
		TransmittedAt:   order.TransmittedAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of domain orders to list responses
func ToPurchaseOrderListItemResponses(orders []trade.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(&orders[i])
	}
	return responses
}

// ToPurchaseOrderItemResponse converts domain PurchaseOrderItem to response DTO
func ToPurchaseOrderItemResponse(item *trade.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:          item.ID,
		LineNumber:  item.LineNumber,
		ProductID:   item.ProductID,
		ProductCode: item.ProductCode,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
