// Package entry contains ledger entry mutation use cases. Every mutation
// bumps the owner's generation counters (inside the store transaction),
// invalidates the affected statistics snapshots and re-evaluates the owner's
// budgets.
package entry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/application/usecase/budget"
	"github.com/finance-tracker/engine/internal/application/usecase/statistics"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

// MaxDescriptionLength is the maximum allowed length for entry descriptions.
const MaxDescriptionLength = 255

// CreateEntryInput represents the input for entry creation.
type CreateEntryInput struct {
	OwnerID     uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Kind        entity.EntryKind
	Date        time.Time
	Description string
	Tags        []string
}

// CreateEntryUseCase handles user-entered ledger entry creation.
type CreateEntryUseCase struct {
	entryRepo     adapter.EntryRepository
	invalidator   *statistics.Invalidator
	evaluateOwner *budget.EvaluateOwnerUseCase
}

// NewCreateEntryUseCase creates a new CreateEntryUseCase instance.
func NewCreateEntryUseCase(
	entryRepo adapter.EntryRepository,
	invalidator *statistics.Invalidator,
	evaluateOwner *budget.EvaluateOwnerUseCase,
) *CreateEntryUseCase {
	return &CreateEntryUseCase{
		entryRepo:     entryRepo,
		invalidator:   invalidator,
		evaluateOwner: evaluateOwner,
	}
}

// Execute validates and persists a new ledger entry, then triggers cache
// invalidation and budget evaluation for the owner.
func (uc *CreateEntryUseCase) Execute(ctx context.Context, input CreateEntryInput) (*entity.LedgerEntry, error) {
	if err := validateMutableFields(input.Amount, input.Kind, input.Description); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeInvalidEntryDate,
			"occurrence date is required",
			domainerror.ErrInvalidEntryDate,
		)
	}

	newEntry := entity.NewLedgerEntry(
		input.OwnerID,
		input.CategoryID,
		input.Amount,
		input.Kind,
		input.Date,
		input.Description,
		input.Tags,
	)

	if err := uc.entryRepo.Create(ctx, newEntry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	propagateMutation(ctx, uc.invalidator, uc.evaluateOwner, newEntry.OwnerID, newEntry.Date)
	return newEntry, nil
}

// validateMutableFields checks the invariants shared by create and update:
// strictly positive amount, known kind, bounded description.
func validateMutableFields(amount decimal.Decimal, kind entity.EntryKind, description string) error {
	if !amount.IsPositive() {
		return domainerror.NewEntryError(
			domainerror.ErrCodeInvalidEntryAmount,
			"amount must be strictly positive",
			domainerror.ErrInvalidEntryAmount,
		)
	}

	switch kind {
	case entity.EntryKindIncome, entity.EntryKindExpense, entity.EntryKindTransfer:
	default:
		return domainerror.NewEntryError(
			domainerror.ErrCodeInvalidEntryKind,
			"kind must be 'income', 'expense' or 'transfer'",
			domainerror.ErrInvalidEntryKind,
		)
	}

	if len(description) > MaxDescriptionLength {
		return domainerror.NewEntryError(
			domainerror.ErrCodeEntryDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrEntryDescriptionTooLong,
		)
	}
	return nil
}

// propagateMutation runs the post-mutation side effects. Both are best-effort:
// the generation counters already moved with the mutation, so a failed cache
// delete is caught by the generation check on the next read.
func propagateMutation(
	ctx context.Context,
	invalidator *statistics.Invalidator,
	evaluateOwner *budget.EvaluateOwnerUseCase,
	ownerID uuid.UUID,
	dates ...time.Time,
) {
	if err := invalidator.OnEntryMutation(ctx, ownerID, dates...); err != nil {
		slog.Warn("Snapshot invalidation incomplete", "owner_id", ownerID, "error", err)
	}
	if _, err := evaluateOwner.Execute(ctx, ownerID, time.Now().UTC()); err != nil {
		slog.Warn("Budget evaluation after mutation failed", "owner_id", ownerID, "error", err)
	}
}
