package transport

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/tradelink/backend/internal/domain/edi"
)

// Ensure NoopPublisher implements the publisher port
var _ edi.InterchangePublisher = (*NoopPublisher)(nil)

// NoopPublisher accepts every payload without sending it anywhere. It
// backs development deployments where no streaming cluster runs; the
// interchange lifecycle still advances so the rest of the system can be
// exercised.
type NoopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher creates a publisher that only logs
func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the payload and reports success
func (p *NoopPublisher) Publish(ctx context.Context, interchange *edi.Interchange, payload string) error {
	if interchange == nil {
		return errors.New("interchange is required")
	}

	p.logger.Info("Transport disabled, interchange not sent",
		zap.String("message_ref", interchange.MessageRef),
		zap.Int("payload_size", len(payload)))

	return nil
}
