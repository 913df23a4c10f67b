// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the EDI platform.
// It tracks order activity, message encode/decode outcomes, validation
// findings, and the outbound dispatch backlog.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal      *Counter
	orderAmountTotal       *Counter
	messageEncodedTotal    *Counter
	messageDecodedTotal    *Counter
	validationFindingTotal *Counter

	// Distribution of raw payload sizes
	payloadBytes *Histogram

	// Gauge metrics (point-in-time values)
	pendingInterchanges *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	backlogProvider BacklogProvider
}

// BacklogProvider reports dispatch backlog sizes for periodic metrics
// collection. The interface keeps the telemetry layer free of a direct
// dependency on the interchange repository.
type BacklogProvider interface {
	// CountPendingInterchanges returns the number of outbound interchanges
	// still awaiting transmission
	CountPendingInterchanges(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 1 minute
	BacklogProvider BacklogProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		backlogProvider: cfg.BacklogProvider,
	}

	// Initialize counter metrics
	var err error

	// Order metrics
	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"edi_order_created_total",
		"Total number of purchase orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"edi_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Message exchange metrics
	bm.messageEncodedTotal, err = NewCounter(
		cfg.Meter,
		"edi_message_encoded_total",
		"Total number of messages encoded for transmission",
		"{messages}",
	)
	if err != nil {
		return nil, err
	}

	bm.messageDecodedTotal, err = NewCounter(
		cfg.Meter,
		"edi_message_decoded_total",
		"Total number of inbound messages processed, by outcome",
		"{messages}",
	)
	if err != nil {
		return nil, err
	}

	bm.validationFindingTotal, err = NewCounter(
		cfg.Meter,
		"edi_validation_finding_total",
		"Total number of validation findings, by category",
		"{findings}",
	)
	if err != nil {
		return nil, err
	}

	bm.payloadBytes, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "edi_payload_bytes",
		Description: "Distribution of raw message payload sizes",
		Unit:        "By",
		Boundaries:  []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576},
	})
	if err != nil {
		return nil, err
	}

	bm.pendingInterchanges, err = NewGauge(
		cfg.Meter,
		"edi_pending_interchanges",
		"Number of outbound interchanges awaiting transmission",
		"{interchanges}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// Direction labels order and message metrics with the side of the exchange.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// RecordOrderCreated records an order creation event.
// This should be called from the application layer when an order is created.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, direction Direction) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrDirection.String(string(direction)),
	)
}

// RecordOrderAmount records the order amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, direction Direction, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrDirection.String(string(direction)),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, direction Direction, amount decimal.Decimal) {
	bm.RecordOrderCreated(ctx, direction)

	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, direction, amountCents)
}

// =============================================================================
// Message Exchange Metrics
// =============================================================================

// DecodeOutcome labels what became of an inbound message.
type DecodeOutcome string

const (
	DecodeOutcomeAccepted  DecodeOutcome = "accepted"
	DecodeOutcomeRejected  DecodeOutcome = "rejected"
	DecodeOutcomeDuplicate DecodeOutcome = "duplicate"
)

// RecordMessageEncoded records a successful encode together with the payload size.
func (bm *BusinessMetrics) RecordMessageEncoded(ctx context.Context, payloadSize int) {
	bm.messageEncodedTotal.Inc(ctx)
	bm.payloadBytes.Record(ctx, float64(payloadSize),
		AttrDirection.String(string(DirectionOutbound)),
	)
}

// RecordMessageDecoded records the outcome of processing one inbound message.
func (bm *BusinessMetrics) RecordMessageDecoded(ctx context.Context, outcome DecodeOutcome, payloadSize int) {
	bm.messageDecodedTotal.Inc(ctx,
		AttrOutcome.String(string(outcome)),
	)
	if payloadSize > 0 {
		bm.payloadBytes.Record(ctx, float64(payloadSize),
			AttrDirection.String(string(DirectionInbound)),
		)
	}
}

// RecordValidationFindings records validation findings grouped by category.
func (bm *BusinessMetrics) RecordValidationFindings(ctx context.Context, findingsByCategory map[string]int) {
	for category, count := range findingsByCategory {
		bm.validationFindingTotal.Add(ctx, int64(count),
			AttrCategory.String(category),
		)
	}
}

// RecordPendingInterchanges records the current dispatch backlog size.
func (bm *BusinessMetrics) RecordPendingInterchanges(ctx context.Context, count int64) {
	bm.pendingInterchanges.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It samples the dispatch backlog every interval (default: 1 minute).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectBacklogMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectBacklogMetrics(ctx)
		}
	}
}

// collectBacklogMetrics samples the dispatch backlog gauge.
func (bm *BusinessMetrics) collectBacklogMetrics(ctx context.Context) {
	if bm.backlogProvider == nil {
		bm.logger.Debug("No backlog provider configured, skipping backlog metrics collection")
		return
	}

	count, err := bm.backlogProvider.CountPendingInterchanges(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count pending interchanges", zap.Error(err))
		return
	}

	bm.RecordPendingInterchanges(ctx, count)
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
