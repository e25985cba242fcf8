// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind represents the semantic kind of a ledger entry.
type EntryKind string

const (
	EntryKindIncome   EntryKind = "income"
	EntryKindExpense  EntryKind = "expense"
	EntryKindTransfer EntryKind = "transfer"
)

// LedgerEntry represents a concrete dated entry in a user's ledger.
// Amount is always a positive magnitude; Kind carries the sign semantics.
type LedgerEntry struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	CategoryID  *uuid.UUID // Optional, can be uncategorized
	Amount      decimal.Decimal
	Kind        EntryKind
	Date        time.Time // Occurrence date, calendar date only
	Description string
	Tags        []string
	RuleID      *uuid.UUID // Set when materialized from a recurring rule
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewLedgerEntry creates a new LedgerEntry entity.
func NewLedgerEntry(
	ownerID uuid.UUID,
	categoryID *uuid.UUID,
	amount decimal.Decimal,
	kind EntryKind,
	date time.Time,
	description string,
	tags []string,
) *LedgerEntry {
	now := time.Now().UTC()

	return &LedgerEntry{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CategoryID:  categoryID,
		Amount:      amount,
		Kind:        kind,
		Date:        truncateToDate(date),
		Description: description,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewEntryFromRule materializes a LedgerEntry from a recurring rule for the
// given occurrence date.
func NewEntryFromRule(rule *RecurringRule, occurrence time.Time) *LedgerEntry {
	entry := NewLedgerEntry(
		rule.OwnerID,
		rule.CategoryID,
		rule.Amount,
		rule.Kind,
		occurrence,
		rule.Description,
		nil,
	)
	ruleID := rule.ID
	entry.RuleID = &ruleID
	return entry
}

// SignedAmount returns the amount with the sign implied by the entry kind:
// negative for expenses, positive otherwise.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind == EntryKindExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// IsDeleted reports whether the entry has been soft-deleted.
func (e *LedgerEntry) IsDeleted() bool {
	return e.DeletedAt != nil
}

// truncateToDate drops the time-of-day component, keeping a pure calendar date.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
