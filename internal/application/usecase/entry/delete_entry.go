package entry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/application/usecase/budget"
	"github.com/finance-tracker/engine/internal/application/usecase/statistics"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
)

// DeleteEntryUseCase soft-deletes a ledger entry. Deleted entries drop out of
// every aggregation and budget computation but the row survives for restore.
type DeleteEntryUseCase struct {
	entryRepo     adapter.EntryRepository
	invalidator   *statistics.Invalidator
	evaluateOwner *budget.EvaluateOwnerUseCase
}

// NewDeleteEntryUseCase creates a new DeleteEntryUseCase instance.
func NewDeleteEntryUseCase(
	entryRepo adapter.EntryRepository,
	invalidator *statistics.Invalidator,
	evaluateOwner *budget.EvaluateOwnerUseCase,
) *DeleteEntryUseCase {
	return &DeleteEntryUseCase{
		entryRepo:     entryRepo,
		invalidator:   invalidator,
		evaluateOwner: evaluateOwner,
	}
}

// Execute soft-deletes the entry after an ownership check.
func (uc *DeleteEntryUseCase) Execute(ctx context.Context, id, ownerID uuid.UUID) error {
	existing, err := uc.entryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return domainerror.NewEntryError(
			domainerror.ErrCodeEntryNotFound,
			"entry not found",
			domainerror.ErrEntryNotFound,
		)
	}

	if err := uc.entryRepo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	propagateMutation(ctx, uc.invalidator, uc.evaluateOwner, ownerID, existing.Date)
	return nil
}
