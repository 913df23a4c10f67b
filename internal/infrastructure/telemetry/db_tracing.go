package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL includes query variables in spans. Off by default:
	// statements carry partner identifiers and prices.
	LogFullSQL      bool
	SlowQueryThresh time.Duration // default 200ms
	DBSystem        string        // default "postgresql"
}

// DefaultDBTracingConfig returns the default database tracing configuration.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin wires otelgorm into GORM and layers slow-query and
// error annotations onto the spans it opens.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm registers otelgorm and the annotation callbacks on
// the given GORM DB instance. A no-op when tracing is disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

type traceStartKey struct{}

// markStart stores the query start time for the slow-query annotation.
func (p *DBTracingPlugin) markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, traceStartKey{}, time.Now())
	}
}

// annotate enriches the active span with rows affected, table name,
// errors, and a slow-query event when the threshold is exceeded.
func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	span := trace.SpanFromContext(db.Statement.Context)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// A missed dedup lookup is an expected outcome, not a fault.
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := db.Statement.Context.Value(traceStartKey{}).(time.Time); ok {
		if elapsed := time.Since(startTime); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	return errors.Join(
		db.Callback().Create().Before("gorm:create").Register("otel_timing:start_create", p.markStart),
		db.Callback().Create().After("gorm:create").Register("otel_timing:annotate_create", p.annotate),
		db.Callback().Query().Before("gorm:query").Register("otel_timing:start_query", p.markStart),
		db.Callback().Query().After("gorm:query").Register("otel_timing:annotate_query", p.annotate),
		db.Callback().Update().Before("gorm:update").Register("otel_timing:start_update", p.markStart),
		db.Callback().Update().After("gorm:update").Register("otel_timing:annotate_update", p.annotate),
		db.Callback().Delete().Before("gorm:delete").Register("otel_timing:start_delete", p.markStart),
		db.Callback().Delete().After("gorm:delete").Register("otel_timing:annotate_delete", p.annotate),
		db.Callback().Row().Before("gorm:row").Register("otel_timing:start_row", p.markStart),
		db.Callback().Row().After("gorm:row").Register("otel_timing:annotate_row", p.annotate),
		db.Callback().Raw().Before("gorm:raw").Register("otel_timing:start_raw", p.markStart),
		db.Callback().Raw().After("gorm:raw").Register("otel_timing:annotate_raw", p.annotate),
	)
}
