package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	entryusecase "github.com/finance-tracker/engine/internal/application/usecase/entry"
	"github.com/finance-tracker/engine/internal/application/usecase/recurrence"
	"github.com/finance-tracker/engine/internal/application/usecase/statistics"
	"github.com/finance-tracker/engine/internal/domain/entity"
	"github.com/finance-tracker/engine/internal/integration/persistence/model"
)

const dateLayout = "2006-01-02"

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func parseAmount(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(value)
}

// registerClockSteps registers steps that control the scenario clock.
func registerClockSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^today is "([^"]*)"$`, todayIs)
}

func todayIs(ctx context.Context, value string) error {
	tc := GetTestContext(ctx)
	day, err := parseDate(value)
	if err != nil {
		return err
	}
	tc.clock.Set(day)
	return nil
}

// registerRuleSteps registers recurring rule setup and tick steps.
func registerRuleSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a (daily|weekly|monthly|yearly) (expense|income) rule "([^"]*)" of ([\d.]+) starting on "([^"]*)"$`, aRecurringRule)
	ctx.Step(`^a (daily|weekly|monthly|yearly) (expense|income) rule "([^"]*)" of ([\d.]+) starting on "([^"]*)" and ending on "([^"]*)"$`, aRecurringRuleWithEnd)
	ctx.Step(`^a (daily|weekly|monthly|yearly) (expense|income) rule "([^"]*)" of ([\d.]+) created to start on "([^"]*)"$`, aRuleCreatedToStartOn)
	ctx.Step(`^the engine ticks$`, theEngineTicks)
	ctx.Step(`^the tick materializes (\d+) entries$`, theTickMaterializes)
	ctx.Step(`^the rule "([^"]*)" has (\d+) ledger entries$`, theRuleHasEntries)
	ctx.Step(`^the rule "([^"]*)" is next due on "([^"]*)"$`, theRuleIsNextDueOn)
	ctx.Step(`^the rule "([^"]*)" is flagged for review$`, theRuleIsFlagged)
	ctx.Step(`^the rule "([^"]*)" is inactive$`, theRuleIsInactive)
}

// createRule persists the rule with its cursor anchored on the start date,
// the state of a rule created back then that has been dormant since. Going
// through CreateRuleUseCase would re-derive the cursor to the wall clock and
// leave nothing to backfill.
func createRule(ctx context.Context, frequency, kind, name, amount, start string, end *string) error {
	tc := GetTestContext(ctx)
	amountValue, err := parseAmount(amount)
	if err != nil {
		return err
	}
	startDate, err := parseDate(start)
	if err != nil {
		return err
	}

	var endDate *time.Time
	if end != nil {
		parsed, err := parseDate(*end)
		if err != nil {
			return err
		}
		endDate = &parsed
	}

	rule := entity.NewRecurringRule(
		tc.ownerID,
		nil,
		amountValue,
		entity.EntryKind(kind),
		name,
		entity.Frequency(frequency),
		1,
		startDate,
		endDate,
	)
	if err := tc.ruleRepo.Create(ctx, rule); err != nil {
		return err
	}
	tc.rules[name] = rule
	return nil
}

func aRecurringRule(ctx context.Context, frequency, kind, name, amount, start string) error {
	return createRule(ctx, frequency, kind, name, amount, start, nil)
}

func aRecurringRuleWithEnd(ctx context.Context, frequency, kind, name, amount, start, end string) error {
	return createRule(ctx, frequency, kind, name, amount, start, &end)
}

// aRuleCreatedToStartOn goes through the rule creation use case, so the
// cursor lands on the first valid occurrence rather than blindly on the
// start date.
func aRuleCreatedToStartOn(ctx context.Context, frequency, kind, name, amount, start string) error {
	tc := GetTestContext(ctx)
	amountValue, err := parseAmount(amount)
	if err != nil {
		return err
	}
	startDate, err := parseDate(start)
	if err != nil {
		return err
	}
	rule, err := tc.createRule.Execute(ctx, recurrence.CreateRuleInput{
		OwnerID:     tc.ownerID,
		Amount:      amountValue,
		Kind:        entity.EntryKind(kind),
		Description: name,
		Frequency:   entity.Frequency(frequency),
		Interval:    1,
		StartDate:   startDate,
	})
	if err != nil {
		return err
	}
	tc.rules[name] = rule
	return nil
}

func theEngineTicks(ctx context.Context) error {
	tc := GetTestContext(ctx)
	out, err := tc.tick.Execute(ctx, recurrence.TickInput{Now: tc.clock.Now()})
	tc.lastTick = out
	tc.lastErr = err
	return err
}

func theTickMaterializes(ctx context.Context, expected int) error {
	tc := GetTestContext(ctx)
	if tc.lastTick == nil {
		return fmt.Errorf("no tick has run yet")
	}
	if got := len(tc.lastTick.Entries); got != expected {
		return fmt.Errorf("expected %d materialized entries, got %d", expected, got)
	}
	return nil
}

func (tc *TestContext) findRule(ctx context.Context, name string) (*entity.RecurringRule, error) {
	rule, ok := tc.rules[name]
	if !ok {
		return nil, fmt.Errorf("unknown rule %q", name)
	}
	return tc.ruleRepo.FindByID(ctx, rule.ID)
}

func theRuleHasEntries(ctx context.Context, name string, expected int) error {
	tc := GetTestContext(ctx)
	rule, ok := tc.rules[name]
	if !ok {
		return fmt.Errorf("unknown rule %q", name)
	}

	var count int64
	err := tc.db.DbConn.WithContext(ctx).
		Model(&model.LedgerEntryModel{}).
		Where("rule_id = ?", rule.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if int(count) != expected {
		return fmt.Errorf("expected %d entries for rule %q, got %d", expected, name, count)
	}
	return nil
}

func theRuleIsNextDueOn(ctx context.Context, name, value string) error {
	tc := GetTestContext(ctx)
	expected, err := parseDate(value)
	if err != nil {
		return err
	}
	rule, err := tc.findRule(ctx, name)
	if err != nil {
		return err
	}
	if !rule.NextDue.Equal(expected) {
		return fmt.Errorf("expected rule %q next due on %s, got %s",
			name, expected.Format(dateLayout), rule.NextDue.Format(dateLayout))
	}
	return nil
}

func theRuleIsFlagged(ctx context.Context, name string) error {
	tc := GetTestContext(ctx)
	rule, err := tc.findRule(ctx, name)
	if err != nil {
		return err
	}
	if !rule.NeedsReview {
		return fmt.Errorf("expected rule %q to be flagged for review", name)
	}
	return nil
}

func theRuleIsInactive(ctx context.Context, name string) error {
	tc := GetTestContext(ctx)
	rule, err := tc.findRule(ctx, name)
	if err != nil {
		return err
	}
	if rule.Active {
		return fmt.Errorf("expected rule %q to be inactive", name)
	}
	return nil
}

// registerLedgerSteps registers manual entry steps.
func registerLedgerSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^an? (expense|income|transfer) of ([\d.]+) on "([^"]*)"$`, aLedgerEntry)
}

func aLedgerEntry(ctx context.Context, kind, amount, date string) error {
	tc := GetTestContext(ctx)
	amountValue, err := parseAmount(amount)
	if err != nil {
		return err
	}
	day, err := parseDate(date)
	if err != nil {
		return err
	}
	_, err = tc.createEntry.Execute(ctx, entryusecase.CreateEntryInput{
		OwnerID:     tc.ownerID,
		Amount:      amountValue,
		Kind:        entity.EntryKind(kind),
		Date:        day,
		Description: fmt.Sprintf("%s of %s", kind, amount),
	})
	return err
}

// registerBudgetSteps registers budget setup, evaluation and alert steps.
func registerBudgetSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a (daily|weekly|monthly|yearly) budget "([^"]*)" of ([\d.]+) starting on "([^"]*)"$`, aBudget)
	ctx.Step(`^budgets are evaluated$`, budgetsAreEvaluated)
	ctx.Step(`^the budget "([^"]*)" has (\d+) recorded "(threshold|overrun)" alerts$`, theBudgetHasAlerts)
	ctx.Step(`^pending alerts are dispatched$`, pendingAlertsAreDispatched)
	ctx.Step(`^the notifier delivered (\d+) alerts$`, theNotifierDelivered)
}

func aBudget(ctx context.Context, period, name, amount, start string) error {
	tc := GetTestContext(ctx)
	amountValue, err := parseAmount(amount)
	if err != nil {
		return err
	}
	startDate, err := parseDate(start)
	if err != nil {
		return err
	}
	budget := entity.NewBudget(tc.ownerID, nil, amountValue, entity.BudgetPeriod(period), startDate)
	if err := tc.budgetRepo.Create(ctx, budget); err != nil {
		return err
	}
	tc.budgets[name] = budget
	return nil
}

func budgetsAreEvaluated(ctx context.Context) error {
	tc := GetTestContext(ctx)
	_, err := tc.evaluateOwner.Execute(ctx, tc.ownerID, tc.clock.Now())
	return err
}

func theBudgetHasAlerts(ctx context.Context, name string, expected int, kind string) error {
	tc := GetTestContext(ctx)
	budget, ok := tc.budgets[name]
	if !ok {
		return fmt.Errorf("unknown budget %q", name)
	}

	var count int64
	err := tc.db.DbConn.WithContext(ctx).
		Model(&model.BudgetAlertModel{}).
		Where("budget_id = ?", budget.ID).
		Where("kind = ?", kind).
		Count(&count).Error
	if err != nil {
		return err
	}
	if int(count) != expected {
		return fmt.Errorf("expected %d %s alerts for budget %q, got %d", expected, kind, name, count)
	}
	return nil
}

func pendingAlertsAreDispatched(ctx context.Context) error {
	tc := GetTestContext(ctx)
	return tc.alertWorker.ProcessNow(ctx)
}

func theNotifierDelivered(ctx context.Context, expected int) error {
	tc := GetTestContext(ctx)
	if got := len(tc.notifier.SentAlerts); got != expected {
		return fmt.Errorf("expected %d delivered alerts, got %d", expected, got)
	}
	return nil
}

// registerStatisticsSteps registers summary and cache steps.
func registerStatisticsSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the summary for "([^"]*)" shows a total (expense|income) of ([\d.]+)$`, theSummaryShowsTotal)
	ctx.Step(`^the summary for "([^"]*)" shows a balance of (-?[\d.]+)$`, theSummaryShowsBalance)
	ctx.Step(`^the summary for "([^"]*)" counts (\d+) entries$`, theSummaryCountsEntries)
	ctx.Step(`^a snapshot for "([^"]*)" is cached$`, aSnapshotIsCached)
	ctx.Step(`^no snapshot for "([^"]*)" is cached$`, noSnapshotIsCached)
}

func (tc *TestContext) summary(ctx context.Context, period string) (*entity.StatisticsSnapshot, error) {
	return tc.getSummary.Execute(ctx, statistics.GetSummaryInput{
		OwnerID: tc.ownerID,
		Period:  period,
	})
}

func theSummaryShowsTotal(ctx context.Context, period, kind, amount string) error {
	tc := GetTestContext(ctx)
	expected, err := parseAmount(amount)
	if err != nil {
		return err
	}
	snapshot, err := tc.summary(ctx, period)
	if err != nil {
		return err
	}
	got := snapshot.TotalExpense
	if kind == "income" {
		got = snapshot.TotalIncome
	}
	if !got.Equal(expected) {
		return fmt.Errorf("expected total %s of %s for %s, got %s", kind, expected, period, got)
	}
	return nil
}

func theSummaryShowsBalance(ctx context.Context, period, amount string) error {
	tc := GetTestContext(ctx)
	expected, err := parseAmount(amount)
	if err != nil {
		return err
	}
	snapshot, err := tc.summary(ctx, period)
	if err != nil {
		return err
	}
	if !snapshot.Balance.Equal(expected) {
		return fmt.Errorf("expected balance of %s for %s, got %s", expected, period, snapshot.Balance)
	}
	return nil
}

func theSummaryCountsEntries(ctx context.Context, period string, expected int) error {
	tc := GetTestContext(ctx)
	snapshot, err := tc.summary(ctx, period)
	if err != nil {
		return err
	}
	if snapshot.EntryCount != expected {
		return fmt.Errorf("expected %d entries in %s, got %d", expected, period, snapshot.EntryCount)
	}
	return nil
}

func aSnapshotIsCached(ctx context.Context, period string) error {
	tc := GetTestContext(ctx)
	snapshot, err := tc.cache.Get(ctx, tc.ownerID, period)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("expected a cached snapshot for %s", period)
	}
	return nil
}

func noSnapshotIsCached(ctx context.Context, period string) error {
	tc := GetTestContext(ctx)
	snapshot, err := tc.cache.Get(ctx, tc.ownerID, period)
	if err != nil {
		return err
	}
	if snapshot != nil {
		return fmt.Errorf("expected no cached snapshot for %s", period)
	}
	return nil
}
