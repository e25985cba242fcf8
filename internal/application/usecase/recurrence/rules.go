package recurrence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

// CreateRuleInput represents the input for recurring rule creation.
type CreateRuleInput struct {
	OwnerID     uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Kind        entity.EntryKind
	Description string
	Frequency   entity.Frequency
	Interval    int
	DayOfWeek   *time.Weekday
	DayOfMonth  int        // 0 derives from the start date
	MonthOfYear time.Month // 0 derives from the start date
	StartDate   time.Time
	EndDate     *time.Time
}

// CreateRuleUseCase validates and persists a new recurring rule. Malformed
// configurations are rejected here and never reach the engine.
type CreateRuleUseCase struct {
	ruleRepo adapter.RuleRepository
}

// NewCreateRuleUseCase creates a new CreateRuleUseCase instance.
func NewCreateRuleUseCase(ruleRepo adapter.RuleRepository) *CreateRuleUseCase {
	return &CreateRuleUseCase{ruleRepo: ruleRepo}
}

// Execute performs the rule creation. The cursor is anchored on the start
// date, or re-derived to the first occurrence on or after today when the
// start date lies in the past.
func (uc *CreateRuleUseCase) Execute(ctx context.Context, input CreateRuleInput) (*entity.RecurringRule, error) {
	if err := validateRuleConfig(input); err != nil {
		return nil, err
	}

	rule := entity.NewRecurringRule(
		input.OwnerID,
		input.CategoryID,
		input.Amount,
		input.Kind,
		input.Description,
		input.Frequency,
		input.Interval,
		input.StartDate,
		input.EndDate,
	)
	if input.DayOfWeek != nil {
		rule.DayOfWeek = input.DayOfWeek
	}
	if input.DayOfMonth > 0 {
		rule.DayOfMonth = input.DayOfMonth
	}
	if input.MonthOfYear > 0 {
		rule.MonthOfYear = input.MonthOfYear
	}

	rule.NextDue = DeriveNextDue(rule, time.Now().UTC())

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}
	return rule, nil
}

// DeriveNextDue returns a valid cursor position on or after today: the start
// date itself when it has not passed yet, otherwise the first occurrence on
// or after today. Used at rule creation and after user edits.
func DeriveNextDue(rule *entity.RecurringRule, today time.Time) time.Time {
	today = dateOf(today)
	if !rule.StartDate.Before(today) {
		return rule.StartDate
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	// NextOccurrence jumps monthly and yearly cursors period by period, which
	// would skip an occurrence still ahead inside today's own period (a day-15
	// rule derived on the 10th is due on the 15th, not next month). Place the
	// occurrence in the first aligned period containing or following today.
	switch rule.Frequency {
	case entity.FrequencyMonthly:
		months := (today.Year()-rule.StartDate.Year())*12 + int(today.Month()) - int(rule.StartDate.Month())
		if rem := months % interval; rem != 0 {
			months += interval - rem
		}
		base := time.Date(rule.StartDate.Year(), rule.StartDate.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
		due := occurrenceInMonth(rule, base.Year(), base.Month())
		if due.Before(today) {
			base = base.AddDate(0, interval, 0)
			due = occurrenceInMonth(rule, base.Year(), base.Month())
		}
		return due
	case entity.FrequencyYearly:
		years := today.Year() - rule.StartDate.Year()
		if rem := years % interval; rem != 0 {
			years += interval - rem
		}
		year := rule.StartDate.Year() + years
		due := occurrenceInMonth(rule, year, yearlyMonth(rule))
		if due.Before(today) {
			due = occurrenceInMonth(rule, year+interval, yearlyMonth(rule))
		}
		return due
	}

	return NextOccurrence(rule, today.AddDate(0, 0, -1))
}

// validateRuleConfig enforces the invariants a rule must satisfy before it
// may enter the engine.
func validateRuleConfig(input CreateRuleInput) error {
	switch input.Frequency {
	case entity.FrequencyDaily, entity.FrequencyWeekly, entity.FrequencyMonthly, entity.FrequencyYearly:
	default:
		return domainerror.NewRuleError(
			domainerror.ErrCodeInvalidRuleFrequency,
			"frequency must be 'daily', 'weekly', 'monthly' or 'yearly'",
			domainerror.ErrInvalidRuleFrequency,
		)
	}

	if input.Interval < 1 {
		return domainerror.NewRuleError(
			domainerror.ErrCodeInvalidRuleInterval,
			"interval must be a positive integer",
			domainerror.ErrInvalidRuleInterval,
		)
	}

	if input.DayOfMonth < 0 || input.DayOfMonth > 31 {
		return domainerror.NewRuleError(
			domainerror.ErrCodeInvalidRuleDayOfMonth,
			"day of month must be between 1 and 31",
			domainerror.ErrInvalidRuleDayOfMonth,
		)
	}

	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return domainerror.NewRuleError(
			domainerror.ErrCodeRuleEndBeforeStart,
			"end date must not precede start date",
			domainerror.ErrRuleEndBeforeStart,
		)
	}

	return nil
}
