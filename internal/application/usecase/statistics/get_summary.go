// Package statistics contains period summary use cases.
package statistics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
	"github.com/finance-tracker/engine/internal/domain/valueobject"
)

// GetSummaryInput represents the input for fetching a period summary.
type GetSummaryInput struct {
	OwnerID uuid.UUID
	Period  string // Descriptor, e.g. "2024-01", "2024-Q1" or "2024"
}

// GetSummaryUseCase computes period statistics with a generation-validated
// snapshot cache in front of the ledger store.
type GetSummaryUseCase struct {
	entryRepo adapter.EntryRepository
	cache     adapter.SnapshotCache
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(entryRepo adapter.EntryRepository, cache adapter.SnapshotCache) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		entryRepo: entryRepo,
		cache:     cache,
	}
}

// Execute returns the statistics snapshot for the (owner, period) key.
// A cached snapshot is served only when its generation stamp matches the
// owner's current ledger generation for that period; any mismatch is treated
// as a miss and recomputed. Concurrent recomputation of the same key is
// tolerated, last writer wins.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*entity.StatisticsSnapshot, error) {
	period, err := valueobject.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}
	key := period.String()

	generation, err := uc.entryRepo.GetGenerationCounter(ctx, input.OwnerID, key)
	if err != nil {
		return nil, domainerror.NewStatisticsError(
			domainerror.ErrCodeAggregationFailed,
			"failed to read generation counter",
			domainerror.ErrAggregationFailed,
		)
	}

	if cached, err := uc.cache.Get(ctx, input.OwnerID, key); err != nil {
		// Cache trouble never surfaces to the caller; recompute instead.
		slog.Warn("Snapshot cache read failed", "owner_id", input.OwnerID, "period", key, "error", err)
	} else if cached != nil && cached.Generation == generation {
		return cached, nil
	}

	snapshot, err := uc.compute(ctx, input.OwnerID, period, generation)
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Put(ctx, snapshot); err != nil {
		slog.Warn("Snapshot cache write failed", "owner_id", input.OwnerID, "period", key, "error", err)
	}

	return snapshot, nil
}

// compute scans the owner's non-deleted entries for the period and aggregates
// them into a fresh snapshot. Nothing is cached on failure.
func (uc *GetSummaryUseCase) compute(
	ctx context.Context,
	ownerID uuid.UUID,
	period valueobject.Period,
	generation int64,
) (*entity.StatisticsSnapshot, error) {
	start, end := period.Bounds()
	entries, err := uc.entryRepo.ListActive(ctx, adapter.EntryFilter{
		OwnerID:   ownerID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, domainerror.NewStatisticsError(
			domainerror.ErrCodeAggregationFailed,
			"failed to list entries for period "+period.String(),
			domainerror.ErrAggregationFailed,
		)
	}

	totalIncome, totalExpense := sumByKind(entries)

	trend, err := uc.computeTrend(ctx, ownerID, period, totalExpense)
	if err != nil {
		return nil, err
	}

	return &entity.StatisticsSnapshot{
		OwnerID:      ownerID,
		Period:       period.String(),
		Generation:   generation,
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Balance:      totalIncome.Sub(totalExpense),
		EntryCount:   len(entries),
		Categories:   categoryBreakdown(entries, totalIncome, totalExpense),
		Trend:        trend,
		ComputedAt:   time.Now().UTC(),
	}, nil
}

// computeTrend returns the percentage change of total expense versus the
// immediately preceding period of equal length, or nil when the preceding
// total is zero (undefined rather than a division-by-zero artifact).
func (uc *GetSummaryUseCase) computeTrend(
	ctx context.Context,
	ownerID uuid.UUID,
	period valueobject.Period,
	totalExpense decimal.Decimal,
) (*decimal.Decimal, error) {
	prevStart, prevEnd := period.Previous().Bounds()
	previous, err := uc.entryRepo.ListActive(ctx, adapter.EntryFilter{
		OwnerID:   ownerID,
		StartDate: prevStart,
		EndDate:   prevEnd,
	})
	if err != nil {
		return nil, domainerror.NewStatisticsError(
			domainerror.ErrCodeAggregationFailed,
			"failed to list entries for preceding period",
			domainerror.ErrAggregationFailed,
		)
	}

	_, prevExpense := sumByKind(previous)
	if prevExpense.IsZero() {
		return nil, nil
	}

	hundred := decimal.NewFromInt(100)
	trend := totalExpense.Sub(prevExpense).Div(prevExpense).Mul(hundred)
	return &trend, nil
}

// sumByKind totals income and expense magnitudes. Transfers move money
// between the owner's own accounts and count toward neither total.
func sumByKind(entries []*entity.LedgerEntry) (income, expense decimal.Decimal) {
	for _, e := range entries {
		switch e.Kind {
		case entity.EntryKindIncome:
			income = income.Add(e.Amount)
		case entity.EntryKindExpense:
			expense = expense.Add(e.Amount)
		}
	}
	return income, expense
}

// categoryBreakdown groups entries by (category, kind) and computes each
// group's share of the same-kind total. Results are ordered by total
// descending with ties broken by category id ascending for determinism.
func categoryBreakdown(entries []*entity.LedgerEntry, totalIncome, totalExpense decimal.Decimal) []entity.CategoryTotal {
	type groupKey struct {
		category string
		kind     entity.EntryKind
	}

	groups := make(map[groupKey]*entity.CategoryTotal)
	for _, e := range entries {
		if e.Kind == entity.EntryKindTransfer {
			continue
		}

		key := groupKey{kind: e.Kind}
		if e.CategoryID != nil {
			key.category = e.CategoryID.String()
		}

		group, ok := groups[key]
		if !ok {
			group = &entity.CategoryTotal{CategoryID: e.CategoryID, Kind: e.Kind}
			groups[key] = group
		}
		group.Total = group.Total.Add(e.Amount)
		group.EntryCount++
	}

	hundred := decimal.NewFromInt(100)
	result := make([]entity.CategoryTotal, 0, len(groups))
	for _, group := range groups {
		kindTotal := totalExpense
		if group.Kind == entity.EntryKindIncome {
			kindTotal = totalIncome
		}
		if !kindTotal.IsZero() {
			group.Percent = group.Total.Div(kindTotal).Mul(hundred)
		}
		result = append(result, *group)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return categoryKey(result[i].CategoryID) < categoryKey(result[j].CategoryID)
	})
	return result
}

// categoryKey yields a sortable key; uncategorized groups sort first.
func categoryKey(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
