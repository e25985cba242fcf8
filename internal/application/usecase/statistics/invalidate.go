// Package statistics contains period summary use cases.
package statistics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/valueobject"
)

// Invalidator deletes the cached snapshots affected by a ledger mutation.
// Snapshots are only ever deleted and lazily recomputed; the generation
// counter (bumped by the store in the mutating transaction) backstops any
// invalidation that is lost between the delete and a concurrent read.
type Invalidator struct {
	cache adapter.SnapshotCache
}

// NewInvalidator creates a new Invalidator instance.
func NewInvalidator(cache adapter.SnapshotCache) *Invalidator {
	return &Invalidator{cache: cache}
}

// OnEntryMutation invalidates every snapshot affected by a mutation touching
// the given occurrence dates. Pass both the old and new date when an edit
// moves an entry across period boundaries. For each affected period the
// following period of equal length is invalidated too, because its trend is
// computed against the mutated one.
func (inv *Invalidator) OnEntryMutation(ctx context.Context, ownerID uuid.UUID, dates ...time.Time) error {
	seen := make(map[string]struct{})
	var failed int

	for _, date := range dates {
		for _, period := range valueobject.PeriodsForDate(date) {
			for _, p := range []valueobject.Period{period, period.Next()} {
				key := p.String()
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}

				if err := inv.cache.Invalidate(ctx, ownerID, key); err != nil {
					failed++
					slog.Warn("Snapshot invalidation failed",
						"owner_id", ownerID,
						"period", key,
						"error", err,
					)
				}
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to invalidate %d snapshot(s)", failed)
	}
	return nil
}
