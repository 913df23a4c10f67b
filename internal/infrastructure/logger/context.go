package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey carries the request-scoped logger.
	LoggerKey contextKey = "logger"
	// RequestIDKey carries the request correlation ID.
	RequestIDKey contextKey = "request_id"
	// MessageRefKey carries the EDIFACT message reference.
	MessageRefKey contextKey = "message_ref"
)

// WithContext attaches the logger to the context.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the logger stored in the context, or a no-op
// logger when none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in the context and returns a
// logger that stamps it on every entry.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithMessageRef stores the interchange message reference in the
// context and returns a logger that stamps it on every entry. One
// transmission can then be followed across the codec, the
// repositories, and the transport.
func WithMessageRef(ctx context.Context, logger *zap.Logger, messageRef string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, MessageRefKey, messageRef)
	enriched := logger.With(zap.String("message_ref", messageRef))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID returns the request ID stored in the context, if any.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// GetMessageRef returns the message reference stored in the context, if any.
func GetMessageRef(ctx context.Context) string {
	ref, _ := ctx.Value(MessageRefKey).(string)
	return ref
}

// WithTraceContext stamps trace_id and span_id from the active span
// onto the logger. Without a valid span the logger comes back as is.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
