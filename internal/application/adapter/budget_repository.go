// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// BudgetRepository defines the interface for budget and alert persistence.
type BudgetRepository interface {
	// Create persists a new budget.
	Create(ctx context.Context, budget *entity.Budget) error

	// FindByID retrieves a budget by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error)

	// ListActive retrieves all active, non-deleted budgets for an owner.
	ListActive(ctx context.Context, ownerID uuid.UUID) ([]*entity.Budget, error)

	// RecordAlert persists a new alert event.
	RecordAlert(ctx context.Context, alert *entity.BudgetAlert) error

	// HasAlertForWindow reports whether an alert of the given kind has
	// already been recorded for the budget's window starting at windowStart,
	// delivered or not. Delivery never resets alert eligibility.
	HasAlertForWindow(ctx context.Context, budgetID uuid.UUID, kind entity.AlertKind, windowStart time.Time) (bool, error)

	// ListUndeliveredAlerts retrieves up to limit undelivered alerts, oldest
	// first, for the notification worker.
	ListUndeliveredAlerts(ctx context.Context, limit int) ([]*entity.BudgetAlert, error)

	// MarkAlertDelivered flags an alert as handed off for delivery.
	MarkAlertDelivered(ctx context.Context, alertID uuid.UUID, at time.Time) error
}
