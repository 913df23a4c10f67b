// Package transport carries interchanges to and from trading partners
// over NATS Streaming.
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	stan "github.com/nats-io/stan.go"
	"go.uber.org/zap"

	"github.com/tradelink/backend/internal/domain/edi"
	infraconfig "github.com/tradelink/backend/internal/infrastructure/config"
)

// Ensure StanTransport implements the publisher port
var _ edi.InterchangePublisher = (*StanTransport)(nil)

// InboundHandler processes one raw inbound payload. Returning an error
// leaves the message unacknowledged so the server redelivers it.
type InboundHandler func(ctx context.Context, raw []byte) error

// streamingConn is the slice of stan.Conn the transport uses. Narrowed
// so tests can substitute a fake connection.
type streamingConn interface {
	Publish(subject string, data []byte) error
	QueueSubscribe(subject, qgroup string, cb stan.MsgHandler, opts ...stan.SubscriptionOption) (stan.Subscription, error)
	Close() error
}

// StanTransport publishes outbound interchange payloads and feeds
// inbound ones to a handler through a durable queue subscription.
type StanTransport struct {
	conn           streamingConn
	outboundSubj   string
	inboundSubj    string
	queueGroup     string
	durableName    string
	ackWait        time.Duration
	handlerTimeout time.Duration
	logger         *zap.Logger
}

// Connect dials the NATS Streaming cluster and returns a ready transport
func Connect(cfg *infraconfig.TransportConfig, logger *zap.Logger) (*StanTransport, error) {
	if cfg == nil {
		return nil, errors.New("transport configuration is required")
	}
	if cfg.ClusterID == "" {
		return nil, errors.New("transport cluster id is required")
	}
	if cfg.OutboundSubject == "" || cfg.InboundSubject == "" {
		return nil, errors.New("transport subjects are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("tradelink-%d", time.Now().UnixNano())
	}

	sc, err := stan.Connect(cfg.ClusterID, clientID,
		stan.NatsURL(cfg.URL),
		stan.SetConnectionLostHandler(func(_ stan.Conn, reason error) {
			logger.Error("Transport connection lost", zap.Error(reason))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to streaming cluster %s: %w", cfg.ClusterID, err)
	}

	logger.Info("Connected to streaming transport",
		zap.String("cluster_id", cfg.ClusterID),
		zap.String("client_id", clientID))

	return newStanTransport(sc, cfg, logger), nil
}

func newStanTransport(conn streamingConn, cfg *infraconfig.TransportConfig, logger *zap.Logger) *StanTransport {
	ackWait := cfg.AckWait
	if ackWait <= 0 {
		ackWait = 30 * time.Second
	}
	return &StanTransport{
		conn:           conn,
		outboundSubj:   cfg.OutboundSubject,
		inboundSubj:    cfg.InboundSubject,
		queueGroup:     cfg.QueueGroup,
		durableName:    cfg.DurableName,
		ackWait:        ackWait,
		handlerTimeout: ackWait,
		logger:         logger,
	}
}

// Publish sends the raw payload to the outbound subject. A nil error
// means the streaming server accepted it durably.
func (t *StanTransport) Publish(ctx context.Context, interchange *edi.Interchange, payload string) error {
	if interchange == nil {
		return errors.New("interchange is required")
	}
	if payload == "" {
		return errors.New("payload is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := t.conn.Publish(t.outboundSubj, []byte(payload)); err != nil {
		return fmt.Errorf("failed to publish interchange %s: %w", interchange.MessageRef, err)
	}

	t.logger.Debug("Published outbound interchange",
		zap.String("subject", t.outboundSubj),
		zap.String("message_ref", interchange.MessageRef),
		zap.Int("payload_size", len(payload)))

	return nil
}

// SubscribeInbound starts a durable queue subscription on the inbound
// subject. Messages are acknowledged only after the handler succeeds;
// the subscription closes when ctx is cancelled.
func (t *StanTransport) SubscribeInbound(ctx context.Context, handler InboundHandler) error {
	if handler == nil {
		return errors.New("inbound handler is required")
	}

	sub, err := t.conn.QueueSubscribe(t.inboundSubj, t.queueGroup, func(m *stan.Msg) {
		t.handleInbound(m.Data, m.Ack, handler)
	},
		stan.DurableName(t.durableName),
		stan.SetManualAckMode(),
		stan.AckWait(t.ackWait),
		stan.DeliverAllAvailable(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe on %s: %w", t.inboundSubj, err)
	}

	t.logger.Info("Subscribed for inbound interchanges",
		zap.String("subject", t.inboundSubj),
		zap.String("queue_group", t.queueGroup),
		zap.String("durable", t.durableName))

	go func() {
		<-ctx.Done()
		if err := sub.Close(); err != nil {
			t.logger.Warn("Failed to close inbound subscription", zap.Error(err))
		}
	}()

	return nil
}

// handleInbound runs the handler with a bounded context and acks only on
// success. Failed messages stay pending and redeliver after AckWait.
func (t *StanTransport) handleInbound(raw []byte, ack func() error, handler InboundHandler) {
	ctx, cancel := context.WithTimeout(context.Background(), t.handlerTimeout)
	defer cancel()

	if err := handler(ctx, raw); err != nil {
		t.logger.Error("Inbound handler failed, message will redeliver",
			zap.Int("payload_size", len(raw)),
			zap.Error(err))
		return
	}

	if err := ack(); err != nil {
		t.logger.Warn("Failed to ack inbound message", zap.Error(err))
	}
}

// Close releases the streaming connection
func (t *StanTransport) Close() error {
	return t.conn.Close()
}
