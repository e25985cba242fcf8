// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type over which a budget is measured.
type BudgetPeriod string

const (
	BudgetPeriodDaily   BudgetPeriod = "daily"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// DefaultAlertThreshold is the consumption fraction at which a threshold
// alert fires when a budget does not override it.
var DefaultAlertThreshold = decimal.NewFromFloat(0.8)

// Budget represents a spending limit for an owner, optionally scoped to a
// single category. Consumption is derived from matching expense entries, never
// stored.
type Budget struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	CategoryID     *uuid.UUID // nil means all categories
	TargetAmount   decimal.Decimal
	Period         BudgetPeriod
	StartDate      time.Time
	EndDate        *time.Time
	AlertThreshold decimal.Decimal // Fraction of target, e.g. 0.8
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time // Soft-delete support
}

// NewBudget creates a new Budget entity with the default alert threshold.
func NewBudget(
	ownerID uuid.UUID,
	categoryID *uuid.UUID,
	targetAmount decimal.Decimal,
	period BudgetPeriod,
	startDate time.Time,
) *Budget {
	now := time.Now().UTC()

	return &Budget{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		CategoryID:     categoryID,
		TargetAmount:   targetAmount,
		Period:         period,
		StartDate:      truncateToDate(startDate),
		AlertThreshold: DefaultAlertThreshold,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Expired reports whether the budget's end date has passed as of the given
// date. The end date itself is still in effect.
func (b *Budget) Expired(asOf time.Time) bool {
	return b.EndDate != nil && truncateToDate(asOf).After(*b.EndDate)
}

// BudgetStatus represents the evaluated state of a budget within its current
// window.
type BudgetStatus struct {
	Budget      *Budget
	WindowStart time.Time
	WindowEnd   time.Time
	Consumption decimal.Decimal
	PercentUsed decimal.Decimal
	Alerts      []*BudgetAlert // Newly emitted alerts, if any
}
