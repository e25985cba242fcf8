// Package recurrence contains recurring rule materialization use cases.
package recurrence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/application/usecase/budget"
	"github.com/finance-tracker/engine/internal/application/usecase/statistics"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

const (
	// DefaultCatchUpCap bounds how many missed periods a rule backfills in a
	// single tick before its cursor jumps forward and the rule is flagged
	// for user review.
	DefaultCatchUpCap = 366

	// DefaultBatchSize is the number of rules fetched per page during a tick.
	DefaultBatchSize = 100
)

// TickInput represents the input for one engine tick.
type TickInput struct {
	Now       time.Time
	BatchSize int // Defaults to DefaultBatchSize when <= 0
}

// TickOutput reports the result of one engine tick. Per-rule failures are
// counted, never fatal to the tick.
type TickOutput struct {
	Entries     []*entity.LedgerEntry
	Succeeded   int
	Failed      int
	Deactivated int
	Flagged     int  // Rules that hit the catch-up cap
	Cancelled   bool // Tick stopped early because the context ended
}

// TickUseCase materializes due occurrences of active recurring rules into
// ledger entries and advances each rule's cursor.
type TickUseCase struct {
	ruleRepo      adapter.RuleRepository
	entryRepo     adapter.EntryRepository
	invalidator   *statistics.Invalidator
	evaluateOwner *budget.EvaluateOwnerUseCase
	catchUpCap    int
}

// NewTickUseCase creates a new TickUseCase instance. A catchUpCap <= 0 falls
// back to DefaultCatchUpCap.
func NewTickUseCase(
	ruleRepo adapter.RuleRepository,
	entryRepo adapter.EntryRepository,
	invalidator *statistics.Invalidator,
	evaluateOwner *budget.EvaluateOwnerUseCase,
	catchUpCap int,
) *TickUseCase {
	if catchUpCap <= 0 {
		catchUpCap = DefaultCatchUpCap
	}
	return &TickUseCase{
		ruleRepo:      ruleRepo,
		entryRepo:     entryRepo,
		invalidator:   invalidator,
		evaluateOwner: evaluateOwner,
		catchUpCap:    catchUpCap,
	}
}

// Execute processes every active rule whose cursor falls on or before Now.
// Rules are fetched in batches; the cursor of a successfully processed rule
// moves past Now, so each fetch restarts behind the rules that failed this
// tick. Cancellation is checked between rules, never mid-rule, leaving
// unprocessed rules untouched for the next tick.
func (uc *TickUseCase) Execute(ctx context.Context, input TickInput) (*TickOutput, error) {
	now := dateOf(input.Now)
	batch := input.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	output := &TickOutput{}
	processed := make(map[string]struct{})

	for {
		if err := ctx.Err(); err != nil {
			output.Cancelled = true
			return output, nil
		}

		// Failed rules keep their due cursor; skip past them on refetch.
		rules, err := uc.ruleRepo.ListActiveDue(ctx, now, output.Failed, batch)
		if err != nil {
			return output, err
		}

		progressed := false
		for _, rule := range rules {
			if err := ctx.Err(); err != nil {
				output.Cancelled = true
				return output, nil
			}
			if _, seen := processed[rule.ID.String()]; seen {
				continue
			}
			processed[rule.ID.String()] = struct{}{}
			progressed = true

			uc.processRule(ctx, rule, now, output)
		}

		if !progressed || len(rules) < batch {
			return output, nil
		}
	}
}

// processRule materializes the rule's due occurrences and advances its
// cursor. The cursor only advances when every materialization succeeded, so a
// failed rule is retried from the same position next tick.
func (uc *TickUseCase) processRule(ctx context.Context, rule *entity.RecurringRule, now time.Time, output *TickOutput) {
	logger := slog.With("rule_id", rule.ID, "owner_id", rule.OwnerID)

	created, cursor, hitCap, err := uc.materialize(ctx, rule, now)
	if err != nil {
		output.Failed++
		logger.Error("Rule materialization failed", "error", err)
		return
	}

	if rule.Expired(cursor) {
		if err := uc.ruleRepo.Deactivate(ctx, rule.ID); err != nil {
			output.Failed++
			logger.Error("Rule deactivation failed", "error", err)
			return
		}
		output.Deactivated++
	} else if err := uc.ruleRepo.AdvanceCursor(ctx, rule.ID, cursor); err != nil {
		output.Failed++
		logger.Error("Cursor advance failed", "error", err)
		return
	}

	if hitCap {
		if err := uc.ruleRepo.MarkNeedsReview(ctx, rule.ID); err != nil {
			logger.Warn("Failed to flag rule for review", "error", err)
		}
		output.Flagged++
	}

	output.Succeeded++
	output.Entries = append(output.Entries, created...)

	if len(created) > 0 {
		uc.propagate(ctx, rule, created, now, logger)
	}
}

// materialize creates one entry per missed occurrence up to the catch-up cap,
// then jumps the cursor past now. It returns the created entries, the final
// cursor position, and whether the cap was hit.
func (uc *TickUseCase) materialize(
	ctx context.Context,
	rule *entity.RecurringRule,
	now time.Time,
) ([]*entity.LedgerEntry, time.Time, bool, error) {
	var created []*entity.LedgerEntry
	occurrence := dateOf(rule.NextDue)
	hitCap := false

	for !occurrence.After(now) {
		if rule.Expired(occurrence) {
			break
		}

		if len(created) >= uc.catchUpCap {
			// Bounded backfill: stop creating, jump the cursor forward.
			hitCap = true
		} else {
			entry := entity.NewEntryFromRule(rule, occurrence)
			err := uc.entryRepo.Create(ctx, entry)
			switch {
			case err == nil:
				created = append(created, entry)
			case errors.Is(err, domainerror.ErrMaterializationConflict):
				// Already materialized by an earlier or concurrent tick.
			default:
				return created, occurrence, hitCap, err
			}
		}

		occurrence = NextOccurrence(rule, occurrence)
	}

	return created, occurrence, hitCap, nil
}

// propagate feeds newly created entries into the statistics cache
// invalidation and the owner's budget evaluation. Failures here are logged
// only: the entries are committed and the generation counters already reflect
// them, so stale reads resolve on the next summary request.
func (uc *TickUseCase) propagate(
	ctx context.Context,
	rule *entity.RecurringRule,
	created []*entity.LedgerEntry,
	now time.Time,
	logger *slog.Logger,
) {
	dates := make([]time.Time, len(created))
	for i, e := range created {
		dates[i] = e.Date
	}

	if err := uc.invalidator.OnEntryMutation(ctx, rule.OwnerID, dates...); err != nil {
		logger.Warn("Snapshot invalidation incomplete", "error", err)
	}

	if _, err := uc.evaluateOwner.Execute(ctx, rule.OwnerID, now); err != nil {
		logger.Warn("Budget evaluation after tick failed", "error", err)
	}
}
