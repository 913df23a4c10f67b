package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ediapp "github.com/tradelink/backend/internal/application/edi"
	"github.com/tradelink/backend/internal/domain/edifact"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
	"github.com/tradelink/backend/internal/interfaces/http/middleware"
)

// EDIHandler handles EDIFACT exchange API endpoints: encoding outbound
// orders, ingesting inbound messages, standalone validation, and the
// interchange audit trail.
type EDIHandler struct {
	BaseHandler
	exchangeService *ediapp.ExchangeService
}

// NewEDIHandler creates a new EDIHandler
func NewEDIHandler(exchangeService *ediapp.ExchangeService) *EDIHandler {
	return &EDIHandler{
		exchangeService: exchangeService,
	}
}

// EncodeOrder renders the order as a D.01B ORDERS interchange, archives it
// and hands it to the transport
func (h *EDIHandler) EncodeOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	result, err := h.exchangeService.EncodeOrder(c.Request.Context(), orderID)
	if err != nil {
		h.handleCodecError(c, err)
		return
	}

	c.Set(middleware.MessageRefContextKey, result.MessageRef)
	h.Success(c, result)
}

// ProcessInbound decodes, validates and books the message as a received
// purchase order. Rejected messages are recorded with their diagnostics.
func (h *EDIHandler) ProcessInbound(c *gin.Context) {
	var req ediapp.ProcessInboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.exchangeService.ProcessInbound(c.Request.Context(), req.Payload)
	if err != nil {
		h.handleCodecError(c, err)
		return
	}

	c.Set(middleware.MessageRefContextKey, result.MessageRef)
	h.Created(c, result)
}

// ValidateMessage runs the structural validator only; always returns 200
// with the findings
func (h *EDIHandler) ValidateMessage(c *gin.Context) {
	var req ediapp.ValidateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.Success(c, h.exchangeService.ValidateMessage(c.Request.Context(), req.Payload))
}

// DispatchPending pushes pending outbound interchanges to the transport,
// oldest first
func (h *EDIHandler) DispatchPending(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	result, err := h.exchangeService.DispatchPending(c.Request.Context(), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListInterchanges lists interchanges
func (h *EDIHandler) ListInterchanges(c *gin.Context) {
	filter := ediapp.InterchangeListFilter{Page: 1, PageSize: 20}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	interchanges, total, err := h.exchangeService.ListInterchanges(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, interchanges, total, filter.Page, filter.PageSize)
}

// GetInterchange gets interchange by ID
func (h *EDIHandler) GetInterchange(c *gin.Context) {
	interchangeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid interchange ID format")
		return
	}

	interchange, err := h.exchangeService.GetInterchange(c.Request.Context(), interchangeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, interchange)
}

// GetInterchangeByRef gets interchange by message reference
func (h *EDIHandler) GetInterchangeByRef(c *gin.Context) {
	ref := c.Param("ref")
	if ref == "" {
		h.BadRequest(c, "Message reference is required")
		return
	}

	interchange, err := h.exchangeService.GetInterchangeByRef(c.Request.Context(), ref)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, interchange)
}

// GetInterchangePayload retrieves the exact EDIFACT text from the archive
// store
func (h *EDIHandler) GetInterchangePayload(c *gin.Context) {
	interchangeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid interchange ID format")
		return
	}

	interchange, err := h.exchangeService.GetInterchange(c.Request.Context(), interchangeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	payload, err := h.exchangeService.GetInterchangePayload(c.Request.Context(), interchangeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, PayloadData{
		MessageRef: interchange.MessageRef,
		Payload:    payload,
	})
}

// handleCodecError maps the exchange service's typed errors onto HTTP
// responses. Anything it does not recognize falls through to the domain
// error classifier.
func (h *EDIHandler) handleCodecError(c *gin.Context, err error) {
	var missingField *edifact.MissingFieldError
	if errors.As(err, &missingField) {
		h.Error(c, 400, dto.ErrCodeMissingField, err.Error())
		return
	}

	var oversized *edifact.OversizedInputError
	if errors.As(err, &oversized) {
		h.PayloadTooLarge(c, err.Error())
		return
	}

	var structural *edifact.StructuralViolationError
	if errors.As(err, &structural) {
		h.UnprocessableEntity(c, dto.ErrCodeStructuralViolation,
			strings.Join(structural.Violations.Flatten(), "; "))
		return
	}

	var semantic *edifact.SemanticError
	if errors.As(err, &semantic) {
		h.UnprocessableEntity(c, dto.ErrCodeSemanticExtraction, err.Error())
		return
	}

	var compliance *ediapp.ComplianceError
	if errors.As(err, &compliance) {
		h.UnprocessableEntity(c, dto.ErrCodeComplianceFailure,
			strings.Join(compliance.Findings, "; "))
		return
	}

	var rejection *ediapp.RejectionError
	if errors.As(err, &rejection) {
		c.Set(middleware.MessageRefContextKey, rejection.MessageRef)
		h.UnprocessableEntity(c, dto.ErrCodeComplianceFailure,
			strings.Join(rejection.Diagnostics, "; "))
		return
	}

	h.HandleDomainError(c, err)
}
