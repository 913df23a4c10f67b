package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradelink/backend/internal/domain/partner"
)

// CreateTradingPartnerRequest represents a request to register a new trading partner
type CreateTradingPartnerRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	PartyID     string `json:"party_id" binding:"required,min=1,max=35"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Notes       string `json:"notes"`
}

// UpdateTradingPartnerRequest represents a request to update a trading partner
type UpdateTradingPartnerRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	PartyID     *string `json:"party_id" binding:"omitempty,min=1,max=35"`
	Currency    *string `json:"currency" binding:"omitempty,len=3"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Notes       *string `json:"notes"`
}

// TradingPartnerResponse represents a trading partner in API responses
type TradingPartnerResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	PartyID     string    `json:"party_id"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Notes       string    `json:"notes"`
	CanTrade    bool      `json:"can_trade"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// TradingPartnerListResponse represents a list item for trading partners
type TradingPartnerListResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	PartyID   string    `json:"party_id"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CanTrade  bool      `json:"can_trade"`
	CreatedAt time.Time `json:"created_at"`
}

// TradingPartnerListFilter represents filter options for the partner list
type TradingPartnerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive suspended"`
	Currency string `form:"currency" binding:"omitempty,len=3"`
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToTradingPartnerResponse converts a domain TradingPartner to TradingPartnerResponse
func ToTradingPartnerResponse(p *partner.TradingPartner) TradingPartnerResponse {
	return TradingPartnerResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		PartyID:     p.PartyID,
		Currency:    string(p.Currency),
		Status:      string(p.Status),
		ContactName: p.ContactName,
		Email:       p.Email,
		Phone:       p.Phone,
		Notes:       p.Notes,
		CanTrade:    p.CanTrade(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToTradingPartnerListResponse converts a domain TradingPartner to TradingPartnerListResponse
func ToTradingPartnerListResponse(p *partner.TradingPartner) TradingPartnerListResponse {
	return TradingPartnerListResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		PartyID:   p.PartyID,
		Currency:  string(p.Currency),
		Status:    string(p.Status),
		CanTrade:  p.CanTrade(),
		CreatedAt: p.CreatedAt,
	}
}

// ToTradingPartnerListResponses converts a slice of domain TradingPartners to list responses
func ToTradingPartnerListResponses(partners []partner.TradingPartner) []TradingPartnerListResponse {
	responses := make([]TradingPartnerListResponse, len(partners))
	for i, p := range partners {
		responses[i] = ToTradingPartnerListResponse(&p)
	}
	return responses
}
