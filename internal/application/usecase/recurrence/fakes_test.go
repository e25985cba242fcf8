package recurrence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

// fakeRuleRepo is an in-memory adapter.RuleRepository for tests.
type fakeRuleRepo struct {
	rules map[uuid.UUID]*entity.RecurringRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uuid.UUID]*entity.RecurringRule)}
}

func (r *fakeRuleRepo) add(rule *entity.RecurringRule) {
	copied := *rule
	r.rules[rule.ID] = &copied
}

func (r *fakeRuleRepo) Create(ctx context.Context, rule *entity.RecurringRule) error {
	r.add(rule)
	return nil
}

func (r *fakeRuleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurringRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, domainerror.ErrRuleNotFound
	}
	copied := *rule
	return &copied, nil
}

func (r *fakeRuleRepo) ListActiveDue(ctx context.Context, dueBefore time.Time, offset, limit int) ([]*entity.RecurringRule, error) {
	var due []*entity.RecurringRule
	for _, rule := range r.rules {
		if rule.Active && !rule.NextDue.After(dueBefore) {
			copied := *rule
			due = append(due, &copied)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextDue.Equal(due[j].NextDue) {
			return due[i].NextDue.Before(due[j].NextDue)
		}
		return due[i].ID.String() < due[j].ID.String()
	})

	if offset >= len(due) {
		return nil, nil
	}
	due = due[offset:]
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *fakeRuleRepo) AdvanceCursor(ctx context.Context, ruleID uuid.UUID, nextDue time.Time) error {
	rule, ok := r.rules[ruleID]
	if !ok {
		return domainerror.ErrRuleNotFound
	}
	rule.NextDue = nextDue
	return nil
}

func (r *fakeRuleRepo) Deactivate(ctx context.Context, ruleID uuid.UUID) error {
	rule, ok := r.rules[ruleID]
	if !ok {
		return domainerror.ErrRuleNotFound
	}
	rule.Active = false
	return nil
}

func (r *fakeRuleRepo) MarkNeedsReview(ctx context.Context, ruleID uuid.UUID) error {
	rule, ok := r.rules[ruleID]
	if !ok {
		return domainerror.ErrRuleNotFound
	}
	rule.NeedsReview = true
	return nil
}

// fakeEntryRepo is an in-memory adapter.EntryRepository for tests. It
// enforces the (rule, date) uniqueness the real store guarantees.
type fakeEntryRepo struct {
	entries     []*entity.LedgerEntry
	generations map[string]int64

	createErr       error
	createErrOnDate time.Time
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{generations: make(map[string]int64)}
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	if r.createErr != nil && entry.Date.Equal(r.createErrOnDate) {
		return r.createErr
	}
	if entry.RuleID != nil {
		for _, existing := range r.entries {
			if existing.RuleID != nil && *existing.RuleID == *entry.RuleID && existing.Date.Equal(entry.Date) {
				return domainerror.ErrMaterializationConflict
			}
		}
	}
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeEntryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, domainerror.ErrEntryNotFound
}

func (r *fakeEntryRepo) ListActive(ctx context.Context, filter adapter.EntryFilter) ([]*entity.LedgerEntry, error) {
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
		copied := *e
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

func (r *fakeEntryRepo) Update(ctx context.Context, entry *entity.LedgerEntry) error {
	for i, e := range r.entries {
		if e.ID == entry.ID {
			copied := *entry
			r.entries[i] = &copied
			return nil
		}
	}
	return domainerror.ErrEntryNotFound
}

func (r *fakeEntryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	for _, e := range r.entries {
		if e.ID == id {
			now := time.Now().UTC()
			e.DeletedAt = &now
			return nil
		}
	}
	return domainerror.ErrEntryNotFound
}

func (r *fakeEntryRepo) Restore(ctx context.Context, id uuid.UUID) error {
	for _, e := range r.entries {
		if e.ID == id {
			e.DeletedAt = nil
			return nil
		}
	}
	return domainerror.ErrEntryNotFound
}

func (r *fakeEntryRepo) GetGenerationCounter(ctx context.Context, ownerID uuid.UUID, period string) (int64, error) {
	return r.generations[generationKey(ownerID, period)], nil
}

func (r *fakeEntryRepo) BumpGeneration(ctx context.Context, ownerID uuid.UUID, period string) error {
	r.generations[generationKey(ownerID, period)]++
	return nil
}

func generationKey(ownerID uuid.UUID, period string) string {
	return fmt.Sprintf("%s|%s", ownerID, period)
}

// fakeBudgetRepo is an in-memory adapter.BudgetRepository for tests.
type fakeBudgetRepo struct {
	budgets []*entity.Budget
	alerts  []*entity.BudgetAlert
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{}
}

func (r *fakeBudgetRepo) Create(ctx context.Context, budget *entity.Budget) error {
	copied := *budget
	r.budgets = append(r.budgets, &copied)
	return nil
}

func (r *fakeBudgetRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	for _, b := range r.budgets {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, domainerror.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) ListActive(ctx context.Context, ownerID uuid.UUID) ([]*entity.Budget, error) {
	var active []*entity.Budget
	for _, b := range r.budgets {
		if b.OwnerID == ownerID && b.Active && b.DeletedAt == nil {
			copied := *b
			active = append(active, &copied)
		}
	}
	return active, nil
}

func (r *fakeBudgetRepo) RecordAlert(ctx context.Context, alert *entity.BudgetAlert) error {
	copied := *alert
	r.alerts = append(r.alerts, &copied)
	return nil
}

func (r *fakeBudgetRepo) HasAlertForWindow(ctx context.Context, budgetID uuid.UUID, kind entity.AlertKind, windowStart time.Time) (bool, error) {
	for _, a := range r.alerts {
		if a.BudgetID == budgetID && a.Kind == kind && a.WindowStart.Equal(windowStart) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBudgetRepo) ListUndeliveredAlerts(ctx context.Context, limit int) ([]*entity.BudgetAlert, error) {
	var pending []*entity.BudgetAlert
	for _, a := range r.alerts {
		if !a.Delivered {
			copied := *a
			pending = append(pending, &copied)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (r *fakeBudgetRepo) MarkAlertDelivered(ctx context.Context, alertID uuid.UUID, at time.Time) error {
	for _, a := range r.alerts {
		if a.ID == alertID {
			a.MarkDelivered(at)
			return nil
		}
	}
	return domainerror.ErrBudgetNotFound
}

// fakeSnapshotCache is an in-memory adapter.SnapshotCache for tests.
type fakeSnapshotCache struct {
	snapshots   map[string]*entity.StatisticsSnapshot
	invalidated []string
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{snapshots: make(map[string]*entity.StatisticsSnapshot)}
}

func (c *fakeSnapshotCache) Get(ctx context.Context, ownerID uuid.UUID, period string) (*entity.StatisticsSnapshot, error) {
	snapshot, ok := c.snapshots[generationKey(ownerID, period)]
	if !ok {
		return nil, nil
	}
	copied := *snapshot
	return &copied, nil
}

func (c *fakeSnapshotCache) Put(ctx context.Context, snapshot *entity.StatisticsSnapshot) error {
	copied := *snapshot
	c.snapshots[generationKey(snapshot.OwnerID, snapshot.Period)] = &copied
	return nil
}

func (c *fakeSnapshotCache) Invalidate(ctx context.Context, ownerID uuid.UUID, period string) error {
	key := generationKey(ownerID, period)
	delete(c.snapshots, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

// Ensure fakes satisfy the adapter interfaces.
var (
	_ adapter.RuleRepository   = (*fakeRuleRepo)(nil)
	_ adapter.EntryRepository  = (*fakeEntryRepo)(nil)
	_ adapter.BudgetRepository = (*fakeBudgetRepo)(nil)
	_ adapter.SnapshotCache    = (*fakeSnapshotCache)(nil)
)
