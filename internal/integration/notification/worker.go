// Package notification delivers budget alerts to the configured sink.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
)

// Worker drains undelivered budget alerts and hands them to the notifier.
type Worker struct {
	budgetRepo   adapter.BudgetRepository
	notifier     adapter.AlertNotifier
	pollInterval time.Duration
	batchSize    int
}

// WorkerConfig holds configuration for the alert dispatch worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// NewWorker creates a new alert dispatch worker.
func NewWorker(budgetRepo adapter.BudgetRepository, notifier adapter.AlertNotifier, config WorkerConfig) *Worker {
	return &Worker{
		budgetRepo:   budgetRepo,
		notifier:     notifier,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Alert dispatch worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Process immediately on start, then on ticker
	if err := w.processBatch(ctx); err != nil {
		slog.Error("Alert batch failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Alert dispatch worker shutting down")
			return
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				slog.Error("Alert batch failed", "error", err)
			}
		}
	}
}

// processBatch fetches and dispatches a batch of undelivered alerts. Delivery
// failures are retried on the next poll and not reported here; only a failure
// to read the queue is.
func (w *Worker) processBatch(ctx context.Context) error {
	alerts, err := w.budgetRepo.ListUndeliveredAlerts(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list undelivered alerts: %w", err)
	}

	if len(alerts) == 0 {
		return nil
	}

	slog.Debug("Dispatching alert batch", "count", len(alerts))

	for _, alert := range alerts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			w.dispatch(ctx, alert)
		}
	}
	return nil
}

// dispatch delivers a single alert. A failed delivery leaves the alert
// undelivered so the next poll retries it; the alert record itself is never
// duplicated, so retries stay safe.
func (w *Worker) dispatch(ctx context.Context, alert *entity.BudgetAlert) {
	logger := slog.With(
		"alert_id", alert.ID,
		"budget_id", alert.BudgetID,
		"kind", alert.Kind,
	)

	if err := w.notifier.Send(ctx, alert); err != nil {
		logger.Error("Failed to deliver alert", "error", err)
		return
	}

	if err := w.budgetRepo.MarkAlertDelivered(ctx, alert.ID, time.Now().UTC()); err != nil {
		logger.Error("Failed to mark alert as delivered", "error", err)
		return
	}

	logger.Info("Alert delivered")
}

// ProcessNow dispatches all pending alerts immediately (useful for testing).
func (w *Worker) ProcessNow(ctx context.Context) error {
	return w.processBatch(ctx)
}
