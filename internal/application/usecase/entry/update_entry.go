package entry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/application/usecase/budget"
	"github.com/finance-tracker/engine/internal/application/usecase/statistics"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

// UpdateEntryInput represents the input for editing an entry's mutable fields.
type UpdateEntryInput struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Kind        entity.EntryKind
	Date        time.Time
	Description string
	Tags        []string
}

// UpdateEntryUseCase handles edits to an existing ledger entry.
type UpdateEntryUseCase struct {
	entryRepo     adapter.EntryRepository
	invalidator   *statistics.Invalidator
	evaluateOwner *budget.EvaluateOwnerUseCase
}

// NewUpdateEntryUseCase creates a new UpdateEntryUseCase instance.
func NewUpdateEntryUseCase(
	entryRepo adapter.EntryRepository,
	invalidator *statistics.Invalidator,
	evaluateOwner *budget.EvaluateOwnerUseCase,
) *UpdateEntryUseCase {
	return &UpdateEntryUseCase{
		entryRepo:     entryRepo,
		invalidator:   invalidator,
		evaluateOwner: evaluateOwner,
	}
}

// Execute applies the edit. When the occurrence date moves across period
// boundaries, snapshots for both the old and the new period are invalidated.
func (uc *UpdateEntryUseCase) Execute(ctx context.Context, input UpdateEntryInput) (*entity.LedgerEntry, error) {
	if err := validateMutableFields(input.Amount, input.Kind, input.Description); err != nil {
		return nil, err
	}

	existing, err := uc.entryRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != input.OwnerID {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeEntryNotFound,
			"entry not found",
			domainerror.ErrEntryNotFound,
		)
	}

	oldDate := existing.Date

	existing.CategoryID = input.CategoryID
	existing.Amount = input.Amount
	existing.Kind = input.Kind
	if !input.Date.IsZero() {
		existing.Date = time.Date(input.Date.Year(), input.Date.Month(), input.Date.Day(), 0, 0, 0, 0, time.UTC)
	}
	existing.Description = input.Description
	existing.Tags = input.Tags
	existing.UpdatedAt = time.Now().UTC()

	if err := uc.entryRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	propagateMutation(ctx, uc.invalidator, uc.evaluateOwner, existing.OwnerID, oldDate, existing.Date)
	return existing, nil
}
