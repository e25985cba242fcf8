// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertKind distinguishes the two alert events a budget can emit per window.
type AlertKind string

const (
	// AlertKindThreshold fires once when consumption crosses the budget's
	// alert threshold within a window.
	AlertKindThreshold AlertKind = "threshold"

	// AlertKindOverrun fires once when consumption reaches or exceeds 100%
	// of the target within a window, independent of the threshold alert.
	AlertKindOverrun AlertKind = "overrun"
)

// BudgetAlert records a single alert event for a budget window. At most one
// undelivered alert exists per (budget, window, kind).
type BudgetAlert struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	BudgetID    uuid.UUID
	Kind        AlertKind
	WindowStart time.Time
	WindowEnd   time.Time
	PercentUsed decimal.Decimal // Percentage of target consumed at trigger time
	TriggeredAt time.Time
	Delivered   bool
	DeliveredAt *time.Time
	CreatedAt   time.Time
}

// NewBudgetAlert creates a new undelivered BudgetAlert entity.
func NewBudgetAlert(
	ownerID, budgetID uuid.UUID,
	kind AlertKind,
	windowStart, windowEnd time.Time,
	percentUsed decimal.Decimal,
	triggeredAt time.Time,
) *BudgetAlert {
	now := time.Now().UTC()

	return &BudgetAlert{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		BudgetID:    budgetID,
		Kind:        kind,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		PercentUsed: percentUsed,
		TriggeredAt: triggeredAt,
		CreatedAt:   now,
	}
}

// MarkDelivered flags the alert as handed off to the notification sink.
func (a *BudgetAlert) MarkDelivered(at time.Time) {
	a.Delivered = true
	a.DeliveredAt = &at
}
