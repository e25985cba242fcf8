// Package scheduler drives the recurrence engine on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/finance-tracker/engine/internal/application/usecase/recurrence"
)

// Scheduler runs the materialization tick on a fixed interval. Each tick gets
// its own deadline so a slow catch-up cannot starve the next one; transient
// store failures back off exponentially up to the tick interval.
type Scheduler struct {
	tick         *recurrence.TickUseCase
	tickInterval time.Duration
	tickBudget   time.Duration
	batchSize    int
	storeHealthy func() bool
}

// Config holds scheduler configuration.
type Config struct {
	TickInterval time.Duration
	TickBudget   time.Duration
	BatchSize    int

	// StoreHealthy, when set, is consulted after a failed tick to tell a
	// store outage apart from a rule-level failure.
	StoreHealthy func() bool
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval: 1 * time.Minute,
		TickBudget:   30 * time.Second,
		BatchSize:    recurrence.DefaultBatchSize,
	}
}

// NewScheduler creates a new scheduler.
func NewScheduler(tick *recurrence.TickUseCase, config Config) *Scheduler {
	return &Scheduler{
		tick:         tick,
		tickInterval: config.TickInterval,
		tickBudget:   config.TickBudget,
		batchSize:    config.BatchSize,
		storeHealthy: config.StoreHealthy,
	}
}

// Start begins the tick loop. It blocks until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Scheduler started",
		"tick_interval", s.tickInterval,
		"tick_budget", s.tickBudget,
		"batch_size", s.batchSize,
	)

	var backoff time.Duration // zero while healthy
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	// Tick immediately on start, then on ticker
	s.runTick(ctx, &backoff, ticker)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler shutting down")
			return
		case <-ticker.C:
			s.runTick(ctx, &backoff, ticker)
		}
	}
}

// runTick executes one materialization pass under the tick budget.
func (s *Scheduler) runTick(ctx context.Context, backoff *time.Duration, ticker *time.Ticker) {
	tickCtx := ctx
	if s.tickBudget > 0 {
		var cancel context.CancelFunc
		tickCtx, cancel = context.WithTimeout(ctx, s.tickBudget)
		defer cancel()
	}

	output, err := s.tick.Execute(tickCtx, recurrence.TickInput{
		Now:       time.Now().UTC(),
		BatchSize: s.batchSize,
	})
	if err != nil {
		*backoff = nextBackoff(*backoff, s.tickInterval)
		if s.storeHealthy != nil && !s.storeHealthy() {
			slog.Error("Tick failed, store unreachable", "error", err, "retry_in", *backoff)
		} else {
			slog.Error("Tick failed", "error", err, "retry_in", *backoff)
		}
		ticker.Reset(*backoff)
		return
	}

	if *backoff > 0 {
		*backoff = 0
		ticker.Reset(s.tickInterval)
	}

	if output.Succeeded > 0 || output.Failed > 0 || output.Cancelled {
		slog.Info("Tick completed",
			"entries", len(output.Entries),
			"succeeded", output.Succeeded,
			"failed", output.Failed,
			"deactivated", output.Deactivated,
			"flagged", output.Flagged,
			"cancelled", output.Cancelled,
		)
	}
}

// nextBackoff doubles the delay, starting from a second and capping at max.
func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next < time.Second {
		next = time.Second
	}
	if next > max {
		next = max
	}
	return next
}
