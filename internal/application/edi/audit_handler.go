package edi

import (
	"context"

	"go.uber.org/zap"

	domainedi "github.com/tradelink/backend/internal/domain/edi"
	"github.com/tradelink/backend/internal/domain/shared"
)

// InterchangeAuditHandler writes one structured audit line per
// interchange lifecycle event. The audit trail is what operations
// greps when a partner disputes whether a message was ever sent or
// received.
type InterchangeAuditHandler struct {
	logger *zap.Logger
}

// NewInterchangeAuditHandler creates a handler logging through the
// given logger under the "audit" name.
func NewInterchangeAuditHandler(logger *zap.Logger) *InterchangeAuditHandler {
	return &InterchangeAuditHandler{logger: logger.Named("audit")}
}

// EventTypes subscribes to every interchange lifecycle event.
func (h *InterchangeAuditHandler) EventTypes() []string {
	return []string{
		domainedi.EventTypeInterchangeQueued,
		domainedi.EventTypeInterchangeTransmitted,
		domainedi.EventTypeInterchangeReceived,
		domainedi.EventTypeInterchangeAccepted,
		domainedi.EventTypeInterchangeRejected,
	}
}

// Handle records the event. Unknown interchange event shapes are
// logged with their type only, so a new event never breaks the trail.
func (h *InterchangeAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
	}

	switch e := event.(type) {
	case *domainedi.InterchangeQueuedEvent:
		fields = append(fields,
			zap.String("message_ref", e.MessageRef),
			zap.Int("payload_size", e.PayloadSize))
		h.logger.Info("interchange queued", fields...)
	case *domainedi.InterchangeTransmittedEvent:
		fields = append(fields, zap.String("message_ref", e.MessageRef))
		h.logger.Info("interchange transmitted", fields...)
	case *domainedi.InterchangeReceivedEvent:
		fields = append(fields,
			zap.String("message_ref", e.MessageRef),
			zap.Int("payload_size", e.PayloadSize))
		h.logger.Info("interchange received", fields...)
	case *domainedi.InterchangeAcceptedEvent:
		fields = append(fields,
			zap.String("message_ref", e.MessageRef),
			zap.String("order_id", e.OrderID))
		h.logger.Info("interchange accepted", fields...)
	case *domainedi.InterchangeRejectedEvent:
		fields = append(fields,
			zap.String("message_ref", e.MessageRef),
			zap.Strings("diagnostics", e.Diagnostics))
		h.logger.Warn("interchange rejected", fields...)
	default:
		fields = append(fields, zap.String("event_type", event.EventType()))
		h.logger.Info("interchange event", fields...)
	}
	return nil
}

var _ shared.EventHandler = (*InterchangeAuditHandler)(nil)
