package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

func TestInvalidator_OnEntryMutation(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	seed := func(cache *memSnapshotCache, periods ...string) {
		for _, p := range periods {
			cache.snapshots[cacheKey(ownerID, p)] = &entity.StatisticsSnapshot{OwnerID: ownerID, Period: p}
		}
	}

	t.Run("invalidates the containing periods and their successors", func(t *testing.T) {
		cache := newMemSnapshotCache()
		seed(cache, "2024-03", "2024-04", "2024-Q1", "2024-Q2", "2024", "2025")
		inv := NewInvalidator(cache)

		if err := inv.OnEntryMutation(ctx, ownerID, date(2024, time.March, 10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, p := range []string{"2024-03", "2024-04", "2024-Q1", "2024-Q2", "2024", "2025"} {
			if _, ok := cache.snapshots[cacheKey(ownerID, p)]; ok {
				t.Errorf("expected snapshot %s to be invalidated", p)
			}
		}
	})

	t.Run("unrelated periods survive", func(t *testing.T) {
		cache := newMemSnapshotCache()
		seed(cache, "2024-01", "2023-Q4", "2023")
		inv := NewInvalidator(cache)

		if err := inv.OnEntryMutation(ctx, ownerID, date(2024, time.June, 10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, p := range []string{"2024-01", "2023-Q4", "2023"} {
			if _, ok := cache.snapshots[cacheKey(ownerID, p)]; !ok {
				t.Errorf("expected snapshot %s to survive", p)
			}
		}
	})

	t.Run("an edit moving an entry invalidates both periods", func(t *testing.T) {
		cache := newMemSnapshotCache()
		seed(cache, "2024-03", "2024-06")
		inv := NewInvalidator(cache)

		if err := inv.OnEntryMutation(ctx, ownerID,
			date(2024, time.March, 10),
			date(2024, time.June, 10),
		); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, p := range []string{"2024-03", "2024-06"} {
			if _, ok := cache.snapshots[cacheKey(ownerID, p)]; ok {
				t.Errorf("expected snapshot %s to be invalidated", p)
			}
		}
	})
}
