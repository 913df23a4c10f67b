package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/edi/inbound", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("middleware value wins", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set("request_id", "mw-generated-id")
		c.Request.Header.Set("X-Request-ID", "client-supplied-id")
		assert.Equal(t, "mw-generated-id", getRequestID(c))
	})

	t.Run("header fallback", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-Request-ID", "client-supplied-id")
		assert.Equal(t, "client-supplied-id", getRequestID(c))
	})

	t.Run("absent", func(t *testing.T) {
		c, _ := newTestContext(t)
		assert.Empty(t, getRequestID(c))
	})
}

func TestBaseHandler_SuccessResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("Success", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Success(c, gin.H{"message_ref": "TL20260315000001"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Error)
	})

	t.Run("Created", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Created(c, gin.H{"order_number": "PO-77001"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeEnvelope(t, w).Success)
	})

	t.Run("SuccessWithMeta paginates", func(t *testing.T) {
		c, w := newTestContext(t)
		h.SuccessWithMeta(c, []string{"TL1", "TL2"}, 41, 2, 20)

		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(41), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("NoContent", func(t *testing.T) {
		c, w := newTestContext(t)
		h.NoContent(c)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandler_ErrorHelpers(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		call       func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{"BadRequest", func(c *gin.Context) { h.BadRequest(c, "malformed order id") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"NotFound", func(c *gin.Context) { h.NotFound(c, "interchange not found") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"Conflict", func(c *gin.Context) { h.Conflict(c, "message reference already processed") }, http.StatusConflict, dto.ErrCodeConflict},
		{"PayloadTooLarge", func(c *gin.Context) { h.PayloadTooLarge(c, "message exceeds 1 MiB") }, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge},
		{"UnprocessableEntity", func(c *gin.Context) {
			h.UnprocessableEntity(c, dto.ErrCodeStructuralViolation, "UNT segment count mismatch")
		}, http.StatusUnprocessableEntity, dto.ErrCodeStructuralViolation},
		{"InternalError", func(c *gin.Context) { h.InternalError(c, "archive unavailable") }, http.StatusInternalServerError, dto.ErrCodeInternal},
		{"TooManyRequests", func(c *gin.Context) { h.TooManyRequests(c, "sender over limit") }, http.StatusTooManyRequests, dto.ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			c.Set("request_id", "req-edi-1")
			tt.call(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-edi-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_ErrorCarriesTraceID(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	h := &BaseHandler{}
	c, w := newTestContext(t)

	ctx, span := tp.Tracer("tradelink-backend").Start(c.Request.Context(), "exchange.process_inbound")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	h.Conflict(c, "message reference already processed")

	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, span.SpanContext().TraceID().String(), resp.Error.TraceID)
}

func TestBaseHandler_ValidationError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set("request_id", "req-val-9")

	h.ValidationError(c, []dto.ValidationDetail{
		{Field: "gtin", Message: "check digit mismatch"},
		{Field: "eclass", Message: "must be 8 digits"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "req-val-9", resp.Error.RequestID)
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"duplicate message", shared.NewDomainError("DUPLICATE_MESSAGE", "reference seen before"), http.StatusConflict, "DUPLICATE_MESSAGE"},
		{"missing partner", shared.NewDomainError("PARTNER_NOT_FOUND", "no partner for party id"), http.StatusNotFound, "PARTNER_NOT_FOUND"},
		{"concurrent modification", shared.NewDomainError("CONCURRENT_MODIFICATION", "order changed underneath"), http.StatusConflict, "CONCURRENT_MODIFICATION"},
		{"business rule", shared.NewDomainError("INVALID_STATE", "cannot encode draft order"), http.StatusUnprocessableEntity, "INVALID_STATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}

	t.Run("wrapped domain error", func(t *testing.T) {
		c, w := newTestContext(t)
		wrapped := fmt.Errorf("persist interchange: %w", shared.NewDomainError("DUPLICATE_MESSAGE", "reference seen before"))
		h.HandleDomainError(c, wrapped)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown error becomes 500", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleDomainError(c, errors.New("connection reset"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})

	t.Run("domain error classified", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, shared.NewDomainError("ORDER_NOT_FOUND", "no such order"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("plain error is internal", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, errors.New("redis timeout"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
