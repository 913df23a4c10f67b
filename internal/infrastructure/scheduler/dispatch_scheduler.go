// Package scheduler runs the periodic re-dispatch of queued outbound
// interchanges.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appedi "github.com/tradelink/backend/internal/application/edi"
)

// PendingDispatcher pushes queued outbound interchanges onto the transport
type PendingDispatcher interface {
	DispatchPending(ctx context.Context, limit int) (*appedi.DispatchResult, error)
}

// DispatchSchedulerConfig holds configuration for the dispatch scheduler
type DispatchSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is the time between dispatch runs
	Interval time.Duration

	// BatchSize caps how many pending interchanges one run picks up
	BatchSize int

	// RunTimeout is the maximum time for a single dispatch run
	RunTimeout time.Duration
}

// DefaultDispatchSchedulerConfig returns default configuration
func DefaultDispatchSchedulerConfig() DispatchSchedulerConfig {
	return DispatchSchedulerConfig{
		Enabled:    true,
		Interval:   30 * time.Second,
		BatchSize:  50,
		RunTimeout: 2 * time.Minute,
	}
}

// DispatchScheduler periodically retries transmission of interchanges
// still in the queued state. Transport refusals leave interchanges
// pending, so every run is a retry pass over earlier failures.
type DispatchScheduler struct {
	dispatcher PendingDispatcher
	logger     *zap.Logger
	config     DispatchSchedulerConfig
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	isRunning  bool
}

// NewDispatchScheduler creates a new dispatch scheduler
func NewDispatchScheduler(
	dispatcher PendingDispatcher,
	logger *zap.Logger,
	config DispatchSchedulerConfig,
) (*DispatchScheduler, error) {
	if dispatcher == nil {
		return nil, ErrInvalidConfig
	}
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = 2 * time.Minute
	}
	return &DispatchScheduler{
		dispatcher: dispatcher,
		logger:     logger,
		config:     config,
	}, nil
}

// Start starts the dispatch loop
func (s *DispatchScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Interchange dispatch scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Interchange dispatch scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *DispatchScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Interchange dispatch scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Interchange dispatch scheduler stop timed out")
		return ctx.Err()
	}
}

// run executes dispatch passes on the configured interval
func (s *DispatchScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Dispatch loop stopping")
			return
		case <-ticker.C:
			s.executeDispatch(ctx)
		}
	}
}

// executeDispatch runs one bounded dispatch pass
func (s *DispatchScheduler) executeDispatch(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	startTime := time.Now()
	result, err := s.dispatcher.DispatchPending(runCtx, s.config.BatchSize)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Interchange dispatch run failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if result.Dispatched == 0 && result.Failed == 0 {
		s.logger.Debug("No pending interchanges to dispatch")
		return
	}

	s.logger.Info("Interchange dispatch run completed",
		zap.Duration("duration", duration),
		zap.Int("dispatched", result.Dispatched),
		zap.Int("failed", result.Failed),
	)
}

// TriggerImmediateDispatch runs a dispatch pass outside the interval
func (s *DispatchScheduler) TriggerImmediateDispatch(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate interchange dispatch")

	go func() {
		defer s.wg.Done()
		s.executeDispatch(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *DispatchScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
