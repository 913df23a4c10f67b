package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/tradelink/backend/internal/application/partner"
)

// TradingPartnerHandler handles trading partner API endpoints
type TradingPartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.TradingPartnerService
}

// NewTradingPartnerHandler creates a new TradingPartnerHandler
func NewTradingPartnerHandler(partnerService *partnerapp.TradingPartnerService) *TradingPartnerHandler {
	return &TradingPartnerHandler{
		partnerService: partnerService,
	}
}

// Create register a trading partner with its EDI party identification (GLN
// or mutually agreed code)
func (h *TradingPartnerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateTradingPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	partner, err := h.partnerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, partner)
}

// GetByID gets trading partner by ID
func (h *TradingPartnerHandler) GetByID(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	partner, err := h.partnerService.GetByID(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, partner)
}

// GetByCode gets trading partner by code
func (h *TradingPartnerHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Partner code is required")
		return
	}

	partner, err := h.partnerService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, partner)
}

// GetByPartyID looks up a partner by the identification used in UNB/NAD
// segments, typically a GLN
func (h *TradingPartnerHandler) GetByPartyID(c *gin.Context) {
	partyID := c.Param("partyId")
	if partyID == "" {
		h.BadRequest(c, "Party ID is required")
		return
	}

	partner, err := h.partnerService.GetByPartyID(c.Request.Context(), partyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, partner)
}

// List lists trading partners
func (h *TradingPartnerHandler) List(c *gin.Context) {
	filter := partnerapp.TradingPartnerListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	partners, total, err := h.partnerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, partners, total, filter.Page, filter.PageSize)
}

// Update updates a trading partner
func (h *TradingPartnerHandler) Update(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	var req partnerapp.UpdateTradingPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	partner, err := h.partnerService.Update(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, partner)
}

// Delete deletes a trading partner
func (h *TradingPartnerHandler) Delete(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	if err := h.partnerService.Delete(c.Request.Context(), partnerID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate activates a trading partner
func (h *TradingPartnerHandler) Activate(c *gin.Context) {
	h.transition(c, h.partnerService.Activate)
}

// Deactivate deactivates a trading partner
func (h *TradingPartnerHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.partnerService.Deactivate)
}

// Suspend a suspended partner is excluded from EDI dispatch until
// reactivated
func (h *TradingPartnerHandler) Suspend(c *gin.Context) {
	h.transition(c, h.partnerService.Suspend)
}

// GetStatusSummary gets partner counts by status
func (h *TradingPartnerHandler) GetStatusSummary(c *gin.Context) {
	summary, err := h.partnerService.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

func (h *TradingPartnerHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*partnerapp.TradingPartnerResponse, error)) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	partner, err := op(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, partner)
}
