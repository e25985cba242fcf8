// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryTotal represents one category's share of a period summary.
type CategoryTotal struct {
	CategoryID *uuid.UUID      `json:"category_id"` // nil for uncategorized entries
	Kind       EntryKind       `json:"kind"`
	Total      decimal.Decimal `json:"total"`
	Percent    decimal.Decimal `json:"percent"` // Of the same-kind total; 0 when that total is 0
	EntryCount int             `json:"entry_count"`
}

// StatisticsSnapshot holds the aggregated totals for one (owner, period) key.
// It is computed lazily, cached with the generation counter current at
// computation time, and invalidated by deletion, never patched in place.
type StatisticsSnapshot struct {
	OwnerID      uuid.UUID       `json:"owner_id"`
	Period       string          `json:"period"` // Descriptor, e.g. "2024-01" or "2024-Q1"
	Generation   int64           `json:"generation"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	EntryCount   int             `json:"entry_count"`
	Categories   []CategoryTotal `json:"categories"`

	// Trend is the percentage change of the balance-relevant total versus the
	// immediately preceding period of equal length. Nil means undefined (the
	// preceding period total was zero).
	Trend *decimal.Decimal `json:"trend,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}
