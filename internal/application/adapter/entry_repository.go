// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// EntryFilter defines filter options for listing ledger entries.
type EntryFilter struct {
	OwnerID    uuid.UUID
	StartDate  time.Time // Inclusive
	EndDate    time.Time // Inclusive
	CategoryID *uuid.UUID
	Kind       *entity.EntryKind
}

// EntryRepository defines the interface for ledger entry persistence.
// Soft-deleted entries are excluded from every listing.
type EntryRepository interface {
	// Create persists a new ledger entry. For rule-originated entries the
	// store enforces at-most-one entry per (rule id, occurrence date);
	// a duplicate returns domainerror.ErrMaterializationConflict and leaves
	// the existing entry untouched.
	Create(ctx context.Context, entry *entity.LedgerEntry) error

	// FindByID retrieves an entry by its ID, including soft-deleted ones.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error)

	// ListActive retrieves non-deleted entries matching the filter, ordered
	// by occurrence date ascending.
	ListActive(ctx context.Context, filter EntryFilter) ([]*entity.LedgerEntry, error)

	// Update persists edits to an entry's mutable fields.
	Update(ctx context.Context, entry *entity.LedgerEntry) error

	// SoftDelete marks an entry deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Restore clears the soft-delete marker of an entry.
	Restore(ctx context.Context, id uuid.UUID) error

	// GetGenerationCounter returns the current generation stamp for the
	// (owner, period) key. A key never mutated reports 0.
	GetGenerationCounter(ctx context.Context, ownerID uuid.UUID, period string) (int64, error)

	// BumpGeneration increments the generation stamp for the (owner, period)
	// key, creating it at 1 when absent.
	BumpGeneration(ctx context.Context, ownerID uuid.UUID, period string) error
}
