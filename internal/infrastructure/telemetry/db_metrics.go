package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig holds configuration for database metrics collection.
type DBMetricsConfig struct {
	Enabled bool
	// SlowQueryThreshold marks queries slower than this as slow (default 200ms).
	// Interchange archive writes routinely carry payloads near the size
	// ceiling, so the threshold is deliberately generous.
	SlowQueryThreshold time.Duration
}

// DefaultDBMetricsConfig returns the default database metrics configuration.
func DefaultDBMetricsConfig() DBMetricsConfig {
	return DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 200 * time.Millisecond,
	}
}

// DBMetrics records query statistics and observes connection pool state.
//
// Pool state is read on demand through an observable gauge callback, so
// there is no collection goroutine to manage; Stop unregisters the
// callback.
type DBMetrics struct {
	queryTotal      *Counter
	queryDuration   *Histogram
	slowQueryTotal  *Counter
	queryErrorTotal *Counter

	config  DBMetricsConfig
	logger  *zap.Logger
	poolReg metric.Registration
}

// NewDBMetrics creates the query instruments on the given meter.
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold == 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}

	queryTotal, err := NewCounter(meter, "db_query_total",
		"Total number of database queries by operation type", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	slowQueryTotal, err := NewCounter(meter, "db_slow_query_total",
		"Total number of queries over the slow query threshold", "{query}")
	if err != nil {
		return nil, err
	}
	queryErrorTotal, err := NewCounter(meter, "db_query_error_total",
		"Total number of failed database queries by operation type", "{query}")
	if err != nil {
		return nil, err
	}

	return &DBMetrics{
		queryTotal:      queryTotal,
		queryDuration:   queryDuration,
		slowQueryTotal:  slowQueryTotal,
		queryErrorTotal: queryErrorTotal,
		config:          cfg,
		logger:          logger,
	}, nil
}

// ObservePool registers an observable gauge that reads connection pool
// statistics from the driver each time the meter collects.
func (m *DBMetrics) ObservePool(meter metric.Meter, sqlDB *sql.DB) error {
	poolGauge, err := meter.Int64ObservableGauge(
		"db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(poolGauge, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(poolGauge, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(poolGauge, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		o.ObserveInt64(poolGauge, int64(stats.MaxOpenConnections), metric.WithAttributes(AttrDBState.String("max")))
		return nil
	}, poolGauge)
	if err != nil {
		return err
	}

	m.poolReg = reg
	return nil
}

// Stop unregisters the pool observation callback. Safe to call when
// ObservePool was never registered.
func (m *DBMetrics) Stop() {
	if m.poolReg != nil {
		if err := m.poolReg.Unregister(); err != nil {
			m.logger.Warn("Failed to unregister pool metrics callback", zap.Error(err))
		}
		m.poolReg = nil
	}
}

// RecordQuery records the outcome of one database query.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}

	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation))
	m.queryDuration.RecordDuration(ctx, duration, AttrDBOperation.String(operation))

	if duration > m.config.SlowQueryThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}

	// Missing rows are an expected lookup outcome, not a query failure.
	// Message-ref dedup probes every inbound interchange against the
	// store and most of them are legitimately absent.
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		m.queryErrorTotal.Inc(ctx, AttrDBOperation.String(operation))
	}
}

// QueryStatsPlugin is a GORM plugin that feeds DBMetrics from query
// callbacks.
type QueryStatsPlugin struct {
	metrics *DBMetrics
}

// NewQueryStatsPlugin creates the GORM plugin for the given metrics.
func NewQueryStatsPlugin(metrics *DBMetrics) *QueryStatsPlugin {
	return &QueryStatsPlugin{metrics: metrics}
}

// Name returns the plugin name.
func (p *QueryStatsPlugin) Name() string {
	return "query_stats"
}

type queryStartKey struct{}

// Initialize registers start/finish callbacks on every operation group.
func (p *QueryStatsPlugin) Initialize(db *gorm.DB) error {
	start := func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		db.Statement.Context = context.WithValue(ctx, queryStartKey{}, time.Now())
	}
	finish := func(operation string) func(*gorm.DB) {
		return func(db *gorm.DB) { p.record(db, operation) }
	}
	// Row and Raw carry arbitrary SQL; sniff the verb from the statement.
	finishRaw := func(db *gorm.DB) {
		p.record(db, operationFromSQL(db.Statement.SQL.String()))
	}

	return errors.Join(
		db.Callback().Create().Before("gorm:create").Register("query_stats:start_create", start),
		db.Callback().Create().After("gorm:create").Register("query_stats:finish_create", finish("INSERT")),
		db.Callback().Query().Before("gorm:query").Register("query_stats:start_query", start),
		db.Callback().Query().After("gorm:query").Register("query_stats:finish_query", finish("SELECT")),
		db.Callback().Update().Before("gorm:update").Register("query_stats:start_update", start),
		db.Callback().Update().After("gorm:update").Register("query_stats:finish_update", finish("UPDATE")),
		db.Callback().Delete().Before("gorm:delete").Register("query_stats:start_delete", start),
		db.Callback().Delete().After("gorm:delete").Register("query_stats:finish_delete", finish("DELETE")),
		db.Callback().Row().Before("gorm:row").Register("query_stats:start_row", start),
		db.Callback().Row().After("gorm:row").Register("query_stats:finish_row", finishRaw),
		db.Callback().Raw().Before("gorm:raw").Register("query_stats:start_raw", start),
		db.Callback().Raw().After("gorm:raw").Register("query_stats:finish_raw", finishRaw),
	)
}

func (p *QueryStatsPlugin) record(db *gorm.DB, operation string) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var duration time.Duration
	if startTime, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		duration = time.Since(startTime)
	}

	p.metrics.RecordQuery(ctx, operation, db.Statement.Table, duration, db.Error)
}

// operationFromSQL sniffs the operation type from a raw statement.
func operationFromSQL(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

// RegisterDBMetrics wires query metrics and pool observation onto a GORM
// DB instance. It returns nil metrics when collection is disabled; call
// Stop on the returned metrics at shutdown.
func RegisterDBMetrics(db *gorm.DB, meterProvider *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled {
		logger.Debug("Database metrics disabled, skipping registration")
		return nil, nil
	}
	if meterProvider == nil || !meterProvider.IsEnabled() {
		logger.Debug("MeterProvider not available, skipping database metrics")
		return nil, nil
	}

	meter := meterProvider.Meter("db.client")

	metrics, err := NewDBMetrics(meter, cfg, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := metrics.ObservePool(meter, sqlDB); err != nil {
		return nil, err
	}

	if err := db.Use(NewQueryStatsPlugin(metrics)); err != nil {
		metrics.Stop()
		return nil, err
	}

	logger.Info("Database metrics registered",
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)

	return metrics, nil
}
