package edi

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/edi"
)

// EncodeOrderResponse carries the result of encoding a purchase order
type EncodeOrderResponse struct {
	OrderID       uuid.UUID `json:"order_id"`
	InterchangeID uuid.UUID `json:"interchange_id"`
	MessageRef    string    `json:"message_ref"`
	Payload       string    `json:"payload"`
	PayloadSize   int       `json:"payload_size"`
	SegmentCount  int       `json:"segment_count"`
	// Transmitted is false when the transport refused the payload; the
	// interchange stays queued and the dispatcher retries it.
	Transmitted bool `json:"transmitted"`
}

// ProcessInboundRequest carries a raw inbound message
type ProcessInboundRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// ProcessInboundResponse carries the order created from an accepted
// inbound message
type ProcessInboundResponse struct {
	InterchangeID uuid.UUID `json:"interchange_id"`
	MessageRef    string    `json:"message_ref"`
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	PayloadSize   int       `json:"payload_size"`
	SegmentCount  int       `json:"segment_count"`
	LineCount     int       `json:"line_count"`
}

// ValidateMessageRequest carries a raw message for validation only
type ValidateMessageRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// ValidateMessageResponse reports the structural findings for a message
type ValidateMessageResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// DispatchResult summarizes one dispatcher run over queued interchanges
type DispatchResult struct {
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
}

// InterchangeResponse represents an interchange in API responses
type InterchangeResponse struct {
	ID              uuid.UUID  `json:"id"`
	Direction       string     `json:"direction"`
	MessageRef      string     `json:"message_ref"`
	OrderID         *uuid.UUID `json:"order_id,omitempty"`
	BuyerPartnerID  *uuid.UUID `json:"buyer_partner_id,omitempty"`
	SellerPartnerID *uuid.UUID `json:"seller_partner_id,omitempty"`
	PayloadSize     int        `json:"payload_size"`
	SegmentCount    int        `json:"segment_count"`
	Status          string     `json:"status"`
	ArchiveKey      string     `json:"archive_key,omitempty"`
	Diagnostics     []string   `json:"diagnostics,omitempty"`
	TransmittedAt   *time.Time `json:"transmitted_at,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// InterchangeListFilter represents filter options for the interchange list
type InterchangeListFilter struct {
	Direction string     `form:"direction" binding:"omitempty,oneof=OUTBOUND INBOUND"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING TRANSMITTED RECEIVED ACCEPTED REJECTED"`
	OrderID   *uuid.UUID `form:"order_id"`
	Page      int        `form:"page" binding:"min=1"`
	PageSize  int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToInterchangeResponse converts a domain Interchange to InterchangeResponse
func ToInterchangeResponse(i *edi.Interchange) InterchangeResponse {
	return InterchangeResponse{
		ID:              i.ID,
		Direction:       string(i.Direction),
		MessageRef:      i.MessageRef,
		OrderID:         i.OrderID,
		BuyerPartnerID:  i.BuyerPartnerID,
		SellerPartnerID: i.SellerPartnerID,
		PayloadSize:     i.PayloadSize,
		SegmentCount:    i.SegmentCount,
		Status:          string(i.Status),
		ArchiveKey:      i.ArchiveKey,
		Diagnostics:     i.Diagnostics,
		TransmittedAt:   i.TransmittedAt,
		ProcessedAt:     i.ProcessedAt,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// ToInterchangeResponses converts a slice of domain Interchanges to responses
func ToInterchangeResponses(interchanges []edi.Interchange) []InterchangeResponse {
	responses := make([]InterchangeResponse, len(interchanges))
	for i := range interchanges {
		responses[i] = ToInterchangeResponse(&interchanges[i])
	}
	return responses
}
