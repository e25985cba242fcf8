// Package budget contains budget monitoring use cases.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

var hundred = decimal.NewFromInt(100)

// EvaluateInput represents the input for evaluating a single budget.
type EvaluateInput struct {
	Budget *entity.Budget
	AsOf   time.Time
}

// EvaluateBudgetUseCase computes a budget's consumption within its current
// window and emits threshold and overrun alerts at most once per window each.
type EvaluateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	entryRepo  adapter.EntryRepository
}

// NewEvaluateBudgetUseCase creates a new EvaluateBudgetUseCase instance.
func NewEvaluateBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	entryRepo adapter.EntryRepository,
) *EvaluateBudgetUseCase {
	return &EvaluateBudgetUseCase{
		budgetRepo: budgetRepo,
		entryRepo:  entryRepo,
	}
}

// Execute evaluates the budget as of the given date. The window is derived
// from asOf, so evaluation after a window's end naturally rolls over to the
// new window and resets alert eligibility: alert dedup is keyed by window
// start. Re-evaluation while already above a crossed threshold in the same
// window is a no-op.
func (uc *EvaluateBudgetUseCase) Execute(ctx context.Context, input EvaluateInput) (*entity.BudgetStatus, error) {
	b := input.Budget
	if b == nil || !b.Active || b.DeletedAt != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetInactive,
			"cannot evaluate inactive budget",
			domainerror.ErrBudgetInactive,
		)
	}
	if b.Expired(input.AsOf) {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetInactive,
			"cannot evaluate budget past its end date",
			domainerror.ErrBudgetInactive,
		)
	}

	windowStart, windowEnd := CurrentWindow(b.Period, input.AsOf)

	consumption, err := uc.consumption(ctx, b, windowStart, windowEnd)
	if err != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetEvaluationFailed,
			"failed to compute budget consumption",
			err,
		)
	}

	var percent decimal.Decimal
	if b.TargetAmount.IsPositive() {
		percent = consumption.Div(b.TargetAmount).Mul(hundred)
	}

	status := &entity.BudgetStatus{
		Budget:      b,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Consumption: consumption,
		PercentUsed: percent,
	}

	threshold := b.AlertThreshold
	if !threshold.IsPositive() {
		threshold = entity.DefaultAlertThreshold
	}

	// Threshold crossing and 100%+ overrun are independent events; each
	// fires at most once per window.
	if percent.GreaterThanOrEqual(threshold.Mul(hundred)) {
		if err := uc.emit(ctx, status, entity.AlertKindThreshold, input.AsOf); err != nil {
			return nil, err
		}
	}
	if percent.GreaterThanOrEqual(hundred) {
		if err := uc.emit(ctx, status, entity.AlertKindOverrun, input.AsOf); err != nil {
			return nil, err
		}
	}

	return status, nil
}

// consumption sums the magnitudes of the owner's non-deleted expense entries
// inside the window, scoped to the budget's category when one is set.
func (uc *EvaluateBudgetUseCase) consumption(
	ctx context.Context,
	b *entity.Budget,
	windowStart, windowEnd time.Time,
) (decimal.Decimal, error) {
	kind := entity.EntryKindExpense
	entries, err := uc.entryRepo.ListActive(ctx, adapter.EntryFilter{
		OwnerID:    b.OwnerID,
		StartDate:  windowStart,
		EndDate:    windowEnd,
		CategoryID: b.CategoryID,
		Kind:       &kind,
	})
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// emit records an alert of the given kind unless one already exists for the
// budget's current window.
func (uc *EvaluateBudgetUseCase) emit(
	ctx context.Context,
	status *entity.BudgetStatus,
	kind entity.AlertKind,
	asOf time.Time,
) error {
	exists, err := uc.budgetRepo.HasAlertForWindow(ctx, status.Budget.ID, kind, status.WindowStart)
	if err != nil {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetEvaluationFailed,
			"failed to check alert state",
			err,
		)
	}
	if exists {
		return nil
	}

	alert := entity.NewBudgetAlert(
		status.Budget.OwnerID,
		status.Budget.ID,
		kind,
		status.WindowStart,
		status.WindowEnd,
		status.PercentUsed,
		asOf,
	)
	if err := uc.budgetRepo.RecordAlert(ctx, alert); err != nil {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetEvaluationFailed,
			"failed to record alert",
			err,
		)
	}

	status.Alerts = append(status.Alerts, alert)
	slog.Info("Budget alert emitted",
		"budget_id", status.Budget.ID,
		"kind", kind,
		"percent_used", status.PercentUsed.StringFixed(1),
	)
	return nil
}

// EvaluateOwnerOutput aggregates per-budget evaluation results for one owner.
type EvaluateOwnerOutput struct {
	Statuses  []*entity.BudgetStatus
	Succeeded int
	Failed    int
}

// EvaluateOwnerUseCase evaluates every active budget of an owner, isolating
// per-budget failures.
type EvaluateOwnerUseCase struct {
	budgetRepo adapter.BudgetRepository
	evaluate   *EvaluateBudgetUseCase
}

// NewEvaluateOwnerUseCase creates a new EvaluateOwnerUseCase instance.
func NewEvaluateOwnerUseCase(
	budgetRepo adapter.BudgetRepository,
	evaluate *EvaluateBudgetUseCase,
) *EvaluateOwnerUseCase {
	return &EvaluateOwnerUseCase{
		budgetRepo: budgetRepo,
		evaluate:   evaluate,
	}
}

// Execute evaluates all active budgets for the owner as of the given date.
// A failing budget does not block the others; failures are reported in
// aggregate.
func (uc *EvaluateOwnerUseCase) Execute(ctx context.Context, ownerID uuid.UUID, asOf time.Time) (*EvaluateOwnerOutput, error) {
	budgets, err := uc.budgetRepo.ListActive(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active budgets: %w", err)
	}

	output := &EvaluateOwnerOutput{}
	for _, b := range budgets {
		// Ended budgets stay listed until deactivated; they are simply no
		// longer evaluated.
		if b.Expired(asOf) {
			continue
		}
		status, err := uc.evaluate.Execute(ctx, EvaluateInput{Budget: b, AsOf: asOf})
		if err != nil {
			output.Failed++
			slog.Error("Budget evaluation failed", "budget_id", b.ID, "error", err)
			continue
		}
		output.Succeeded++
		output.Statuses = append(output.Statuses, status)
	}

	return output, nil
}
