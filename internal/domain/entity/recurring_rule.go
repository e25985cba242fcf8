// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency represents how often a recurring rule produces entries.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// RecurringRule is a template for ledger entry generation. The engine is the
// only writer of NextDue after creation; user edits must re-derive a valid
// NextDue on or after today.
type RecurringRule struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Kind        EntryKind
	Description string
	Frequency   Frequency
	Interval    int           // Every N units; values < 1 are treated as 1
	DayOfWeek   *time.Weekday // Weekly rules only
	DayOfMonth  int           // Monthly/yearly rules, 1-31, clamped to month length
	MonthOfYear time.Month    // Yearly rules only
	StartDate   time.Time
	EndDate     *time.Time
	NextDue     time.Time // Cursor: the next occurrence to materialize
	Active      bool
	NeedsReview bool // Set when a tick hits the catch-up cap
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewRecurringRule creates a new RecurringRule entity with its cursor anchored
// on the start date.
func NewRecurringRule(
	ownerID uuid.UUID,
	categoryID *uuid.UUID,
	amount decimal.Decimal,
	kind EntryKind,
	description string,
	frequency Frequency,
	interval int,
	startDate time.Time,
	endDate *time.Time,
) *RecurringRule {
	now := time.Now().UTC()
	start := truncateToDate(startDate)

	return &RecurringRule{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CategoryID:  categoryID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
		Frequency:   frequency,
		Interval:    interval,
		DayOfMonth:  start.Day(),
		MonthOfYear: start.Month(),
		StartDate:   start,
		EndDate:     endDate,
		NextDue:     start,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Expired reports whether the given occurrence date falls past the rule's end
// date.
func (r *RecurringRule) Expired(occurrence time.Time) bool {
	return r.EndDate != nil && occurrence.After(*r.EndDate)
}
