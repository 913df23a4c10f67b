package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/tradelink/backend/internal/infrastructure/telemetry"
)

// newBusinessMetrics wires BusinessMetrics to a manual reader so tests
// can assert the recorded datapoints.
func newBusinessMetrics(t *testing.T, provider telemetry.BacklogProvider) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader, meterProvider := newInstrumentReader(t)

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:           meterProvider.Meter("tradelink.edi"),
		Logger:          zap.NewNop(),
		BacklogProvider: provider,
	})
	require.NoError(t, err)
	t.Cleanup(bm.Stop)
	return bm, reader
}

func sumValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	m, found := collectInstrument(t, reader, name)
	require.True(t, found, "instrument %s not collected", name)

	var total int64
	for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_RecordOrderCreated(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)
	ctx := context.Background()

	bm.RecordOrderCreated(ctx, telemetry.DirectionOutbound)
	bm.RecordOrderCreated(ctx, telemetry.DirectionInbound)
	bm.RecordOrderCreated(ctx, telemetry.DirectionInbound)

	assert.EqualValues(t, 3, sumValue(t, reader, "edi_order_created_total"))
}

func TestBusinessMetrics_RecordOrderAmount(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)
	ctx := context.Background()

	bm.RecordOrderAmount(ctx, telemetry.DirectionOutbound, 10000) // 100.00 EUR
	bm.RecordOrderAmount(ctx, telemetry.DirectionInbound, 50000)

	assert.EqualValues(t, 60000, sumValue(t, reader, "edi_order_amount_total"))
}

func TestBusinessMetrics_RecordOrderWithAmount(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)

	bm.RecordOrderWithAmount(context.Background(), telemetry.DirectionOutbound, decimal.NewFromFloat(199.99))

	assert.EqualValues(t, 1, sumValue(t, reader, "edi_order_created_total"))
	assert.EqualValues(t, 19999, sumValue(t, reader, "edi_order_amount_total"),
		"amount must be recorded in cents")
}

func TestBusinessMetrics_RecordMessageEncoded(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)
	ctx := context.Background()

	bm.RecordMessageEncoded(ctx, 512)
	bm.RecordMessageEncoded(ctx, 2048)

	assert.EqualValues(t, 2, sumValue(t, reader, "edi_message_encoded_total"))

	m, found := collectInstrument(t, reader, "edi_payload_bytes")
	require.True(t, found)
	hist := m.Data.(metricdata.Histogram[float64])
	require.Len(t, hist.DataPoints, 1)
	assert.EqualValues(t, 2, hist.DataPoints[0].Count)
	assert.EqualValues(t, 2560, hist.DataPoints[0].Sum)
}

func TestBusinessMetrics_RecordMessageDecoded(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)
	ctx := context.Background()

	bm.RecordMessageDecoded(ctx, telemetry.DecodeOutcomeAccepted, 1024)
	bm.RecordMessageDecoded(ctx, telemetry.DecodeOutcomeRejected, 128)
	bm.RecordMessageDecoded(ctx, telemetry.DecodeOutcomeDuplicate, 0)

	assert.EqualValues(t, 3, sumValue(t, reader, "edi_message_decoded_total"))

	// The zero-size duplicate must not land in the payload histogram.
	m, found := collectInstrument(t, reader, "edi_payload_bytes")
	require.True(t, found)
	hist := m.Data.(metricdata.Histogram[float64])
	var observations uint64
	for _, dp := range hist.DataPoints {
		observations += dp.Count
	}
	assert.EqualValues(t, 2, observations)
}

func TestBusinessMetrics_RecordValidationFindings(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)
	ctx := context.Background()

	bm.RecordValidationFindings(ctx, map[string]int{
		"BGM":      1,
		"SEQUENCE": 2,
	})
	bm.RecordValidationFindings(ctx, nil)

	assert.EqualValues(t, 3, sumValue(t, reader, "edi_validation_finding_total"))
}

func TestBusinessMetrics_RecordPendingInterchanges(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)

	bm.RecordPendingInterchanges(context.Background(), 12)

	m, found := collectInstrument(t, reader, "edi_pending_interchanges")
	require.True(t, found)
	gauge := m.Data.(metricdata.Gauge[int64])
	require.Len(t, gauge.DataPoints, 1)
	assert.EqualValues(t, 12, gauge.DataPoints[0].Value)
}

type stubBacklogProvider struct {
	pending int64
	err     error
}

func (s *stubBacklogProvider) CountPendingInterchanges(ctx context.Context) (int64, error) {
	return s.pending, s.err
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	bm, reader := newBusinessMetrics(t, &stubBacklogProvider{pending: 7})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The collector samples immediately on start.
	bm.StartPeriodicCollection(ctx, time.Hour)
	time.Sleep(50 * time.Millisecond)
	bm.Stop()

	m, found := collectInstrument(t, reader, "edi_pending_interchanges")
	require.True(t, found)
	gauge := m.Data.(metricdata.Gauge[int64])
	require.Len(t, gauge.DataPoints, 1)
	assert.EqualValues(t, 7, gauge.DataPoints[0].Value)
}

func TestBusinessMetrics_PeriodicCollection_NoProvider(t *testing.T) {
	bm, reader := newBusinessMetrics(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bm.StartPeriodicCollection(ctx, 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	bm.Stop()

	// Nothing to sample, so the gauge never records.
	_, found := collectInstrument(t, reader, "edi_pending_interchanges")
	assert.False(t, found)
}

func TestBusinessMetrics_Stop_Idempotent(t *testing.T) {
	bm, _ := newBusinessMetrics(t, nil)

	bm.Stop()
	bm.Stop()
	bm.Stop()
}

func TestBusinessMetrics_StartPeriodicCollection_OnlyOnce(t *testing.T) {
	bm, _ := newBusinessMetrics(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bm.StartPeriodicCollection(ctx, time.Hour)
	bm.StartPeriodicCollection(ctx, time.Minute)
	bm.StartPeriodicCollection(ctx, time.Second)

	bm.Stop()
}

func TestDirection_Values(t *testing.T) {
	assert.Equal(t, telemetry.Direction("outbound"), telemetry.DirectionOutbound)
	assert.Equal(t, telemetry.Direction("inbound"), telemetry.DirectionInbound)
}

func TestDecodeOutcome_Values(t *testing.T) {
	assert.Equal(t, telemetry.DecodeOutcome("accepted"), telemetry.DecodeOutcomeAccepted)
	assert.Equal(t, telemetry.DecodeOutcome("rejected"), telemetry.DecodeOutcomeRejected)
	assert.Equal(t, telemetry.DecodeOutcome("duplicate"), telemetry.DecodeOutcomeDuplicate)
}

func TestMetricsError_Error(t *testing.T) {
	err := &telemetry.MetricsError{Op: "TestOperation", Err: "test error message"}
	assert.Equal(t, "TestOperation: test error message", err.Error())
}
