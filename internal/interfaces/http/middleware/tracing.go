// Package middleware provides HTTP middleware for the trade gateway.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxRequestIDLength caps the request id attribute; the header is
	// caller-controlled.
	MaxRequestIDLength = 128

	// MessageRefContextKey is the gin context key under which EDI handlers
	// record the interchange message reference. Both the span enrichment
	// here and the access log in the logger package read it.
	MessageRefContextKey = "message_ref"

	// MaxMessageRefLength bounds the message reference attribute. EDIFACT
	// message references (UNH 0062) are at most 14 characters, but the
	// value may come from an untrusted inbound payload.
	MaxMessageRefLength = 35
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "tradelink-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin and enriches its span with request_id
// and, once an EDI handler has identified the interchange,
// edi.message_ref. Span names follow otelgin's "METHOD route" format.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		otelMiddleware(c)

		// otelgin has created the span; stamp our attributes on it.
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
	}
}

// truncate bounds attribute values sourced from untrusted input.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// contextString reads a string value from the gin context, empty when
// absent or of another type.
func contextString(c *gin.Context, key string) string {
	if v, exists := c.Get(key); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// enrichSpan adds the gateway's request-scoped attributes to the span.
func enrichSpan(c *gin.Context, span trace.Span) {
	id := contextString(c, "request_id")
	if id == "" {
		id = truncate(c.GetHeader("X-Request-ID"), MaxRequestIDLength)
	}
	if id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}

	if ref := contextString(c, MessageRefContextKey); ref != "" {
		span.SetAttributes(attribute.String("edi.message_ref", truncate(ref, MaxMessageRefLength)))
	}
}

// SpanErrorMarker flips the span status to error on 4xx/5xx responses.
// Place it after the Tracing middleware in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		var message string
		switch {
		case statusCode >= http.StatusInternalServerError:
			message = "Internal Server Error"
		case statusCode == http.StatusUnprocessableEntity:
			message = "Unprocessable Entity"
		case statusCode == http.StatusConflict:
			message = "Conflict"
		case statusCode == http.StatusNotFound:
			message = "Not Found"
		default:
			message = "Client Error"
		}

		span.SetStatus(codes.Error, message)
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}

// TracingAttributeInjector re-applies the request-scoped attributes after
// later middleware has populated the context. Place it after Tracing.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}
