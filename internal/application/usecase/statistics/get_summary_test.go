// Package statistics contains period summary use cases.
package statistics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

// memEntryRepo is an in-memory adapter.EntryRepository for tests.
type memEntryRepo struct {
	entries     []*entity.LedgerEntry
	generations map[string]int64
	listCalls   int
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{generations: make(map[string]int64)}
}

func (r *memEntryRepo) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memEntryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domainerror.ErrEntryNotFound
}

func (r *memEntryRepo) ListActive(ctx context.Context, filter adapter.EntryFilter) ([]*entity.LedgerEntry, error) {
	r.listCalls++
	var matched []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.OwnerID != filter.OwnerID || e.IsDeleted() {
			continue
		}
		if e.Date.Before(filter.StartDate) || e.Date.After(filter.EndDate) {
			continue
		}
		if filter.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

func (r *memEntryRepo) Update(ctx context.Context, entry *entity.LedgerEntry) error { return nil }
func (r *memEntryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error          { return nil }
func (r *memEntryRepo) Restore(ctx context.Context, id uuid.UUID) error             { return nil }

func (r *memEntryRepo) GetGenerationCounter(ctx context.Context, ownerID uuid.UUID, period string) (int64, error) {
	return r.generations[cacheKey(ownerID, period)], nil
}

func (r *memEntryRepo) BumpGeneration(ctx context.Context, ownerID uuid.UUID, period string) error {
	r.generations[cacheKey(ownerID, period)]++
	return nil
}

// memSnapshotCache is an in-memory adapter.SnapshotCache for tests.
type memSnapshotCache struct {
	snapshots map[string]*entity.StatisticsSnapshot
	getErr    error
}

func newMemSnapshotCache() *memSnapshotCache {
	return &memSnapshotCache{snapshots: make(map[string]*entity.StatisticsSnapshot)}
}

func (c *memSnapshotCache) Get(ctx context.Context, ownerID uuid.UUID, period string) (*entity.StatisticsSnapshot, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.snapshots[cacheKey(ownerID, period)], nil
}

func (c *memSnapshotCache) Put(ctx context.Context, snapshot *entity.StatisticsSnapshot) error {
	c.snapshots[cacheKey(snapshot.OwnerID, snapshot.Period)] = snapshot
	return nil
}

func (c *memSnapshotCache) Invalidate(ctx context.Context, ownerID uuid.UUID, period string) error {
	delete(c.snapshots, cacheKey(ownerID, period))
	return nil
}

func cacheKey(ownerID uuid.UUID, period string) string {
	return fmt.Sprintf("%s|%s", ownerID, period)
}

var (
	_ adapter.EntryRepository = (*memEntryRepo)(nil)
	_ adapter.SnapshotCache   = (*memSnapshotCache)(nil)
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(ownerID uuid.UUID, categoryID *uuid.UUID, amount int64, kind entity.EntryKind, day time.Time) *entity.LedgerEntry {
	return entity.NewLedgerEntry(ownerID, categoryID, decimal.NewFromInt(amount), kind, day, "test entry", nil)
}

func TestGetSummaryUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("aggregates totals, balance and breakdown", func(t *testing.T) {
		entryRepo := newMemEntryRepo()
		cache := newMemSnapshotCache()
		uc := NewGetSummaryUseCase(entryRepo, cache)

		food := uuid.New()
		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, &food, 40, entity.EntryKindExpense, date(2024, time.March, 5)),
			entry(ownerID, &food, 60, entity.EntryKindExpense, date(2024, time.March, 10)),
			entry(ownerID, nil, 200, entity.EntryKindIncome, date(2024, time.March, 15)),
		)

		snapshot, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !snapshot.TotalExpense.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected total expense 100, got %v", snapshot.TotalExpense)
		}
		if !snapshot.TotalIncome.Equal(decimal.NewFromInt(200)) {
			t.Errorf("expected total income 200, got %v", snapshot.TotalIncome)
		}
		if !snapshot.Balance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected balance 100, got %v", snapshot.Balance)
		}
		if snapshot.EntryCount != 3 {
			t.Errorf("expected entry count 3, got %d", snapshot.EntryCount)
		}

		var foodGroup *entity.CategoryTotal
		for i := range snapshot.Categories {
			g := &snapshot.Categories[i]
			if g.CategoryID != nil && *g.CategoryID == food && g.Kind == entity.EntryKindExpense {
				foodGroup = g
			}
		}
		if foodGroup == nil {
			t.Fatal("expected a breakdown group for the food category")
		}
		if !foodGroup.Total.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected food total 100, got %v", foodGroup.Total)
		}
		if !foodGroup.Percent.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected food share 100%%, got %v", foodGroup.Percent)
		}
	})

	t.Run("transfers count only toward entry count", func(t *testing.T) {
		entryRepo := newMemEntryRepo()
		cache := newMemSnapshotCache()
		uc := NewGetSummaryUseCase(entryRepo, cache)

		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, nil, 100, entity.EntryKindExpense, date(2024, time.March, 5)),
			entry(ownerID, nil, 900, entity.EntryKindTransfer, date(2024, time.March, 6)),
		)

		snapshot, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !snapshot.TotalExpense.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected transfers excluded from expense, got %v", snapshot.TotalExpense)
		}
		if !snapshot.TotalIncome.IsZero() {
			t.Errorf("expected transfers excluded from income, got %v", snapshot.TotalIncome)
		}
		if snapshot.EntryCount != 2 {
			t.Errorf("expected transfers in entry count, got %d", snapshot.EntryCount)
		}
		for _, g := range snapshot.Categories {
			if g.Kind == entity.EntryKindTransfer {
				t.Error("expected no transfer group in the breakdown")
			}
		}
	})

	t.Run("trend compares against the preceding period", func(t *testing.T) {
		entryRepo := newMemEntryRepo()
		cache := newMemSnapshotCache()
		uc := NewGetSummaryUseCase(entryRepo, cache)

		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, nil, 100, entity.EntryKindExpense, date(2024, time.February, 10)),
			entry(ownerID, nil, 150, entity.EntryKindExpense, date(2024, time.March, 10)),
		)

		snapshot, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snapshot.Trend == nil {
			t.Fatal("expected a defined trend")
		}
		if !snapshot.Trend.Equal(decimal.NewFromInt(50)) {
			t.Errorf("expected trend +50%%, got %v", snapshot.Trend)
		}
	})

	t.Run("trend is undefined when the preceding period is empty", func(t *testing.T) {
		entryRepo := newMemEntryRepo()
		cache := newMemSnapshotCache()
		uc := NewGetSummaryUseCase(entryRepo, cache)

		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, nil, 150, entity.EntryKindExpense, date(2024, time.March, 10)),
		)

		snapshot, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snapshot.Trend != nil {
			t.Errorf("expected undefined trend, got %v", snapshot.Trend)
		}
	})

	t.Run("serves the cached snapshot while the generation matches", func(t *testing.T) {
		entryRepo := newMemEntryRepo()
		cache := newMemSnapshotCache()
		uc := NewGetSummaryUseCase(entryRepo, cache)

		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, nil, 100, entity.EntryKindExpense, date(2024, time.March, 5)),
		)

		if _, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		callsAfterFirst := entryRepo.listCalls

		if _, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entryRepo.listCalls != callsAfterFirst {
			t.Error("expected the second read to be served from cache")
		}
	})

	t.Run("stale generation forces recomputation", func(t *testing.T) {
		entryRepo := newMemEntryRepo()
		cache := newMemSnapshotCache()
		uc := NewGetSummaryUseCase(entryRepo, cache)

		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, nil, 100, entity.EntryKindExpense, date(2024, time.March, 5)),
		)
		if _, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// A mutation bumps the generation but, say, the invalidation was lost.
		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, nil, 50, entity.EntryKindExpense, date(2024, time.March, 20)),
		)
		if err := entryRepo.BumpGeneration(ctx, ownerID, "2024-03"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		snapshot, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !snapshot.TotalExpense.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected recomputed total 150, got %v", snapshot.TotalExpense)
		}
	})

	t.Run("cache read failure degrades to recomputation", func(t *testing.T) {
		entryRepo := newMemEntryRepo()
		cache := newMemSnapshotCache()
		cache.getErr = errors.New("cache unavailable")
		uc := NewGetSummaryUseCase(entryRepo, cache)

		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, nil, 100, entity.EntryKindExpense, date(2024, time.March, 5)),
		)

		snapshot, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-03"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !snapshot.TotalExpense.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected total expense 100, got %v", snapshot.TotalExpense)
		}
	})

	t.Run("rejects malformed period descriptors", func(t *testing.T) {
		uc := NewGetSummaryUseCase(newMemEntryRepo(), newMemSnapshotCache())
		if _, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "bogus"}); !errors.Is(err, domainerror.ErrInvalidPeriod) {
			t.Errorf("expected ErrInvalidPeriod, got %v", err)
		}
	})

	t.Run("quarter summaries span three months", func(t *testing.T) {
		entryRepo := newMemEntryRepo()
		cache := newMemSnapshotCache()
		uc := NewGetSummaryUseCase(entryRepo, cache)

		entryRepo.entries = append(entryRepo.entries,
			entry(ownerID, nil, 10, entity.EntryKindExpense, date(2024, time.January, 15)),
			entry(ownerID, nil, 20, entity.EntryKindExpense, date(2024, time.February, 15)),
			entry(ownerID, nil, 30, entity.EntryKindExpense, date(2024, time.March, 15)),
			entry(ownerID, nil, 999, entity.EntryKindExpense, date(2024, time.April, 1)),
		)

		snapshot, err := uc.Execute(ctx, GetSummaryInput{OwnerID: ownerID, Period: "2024-Q1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !snapshot.TotalExpense.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected quarter total 60, got %v", snapshot.TotalExpense)
		}
	})
}
