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

// RestoreEntryUseCase undeletes a soft-deleted ledger entry, bringing it back
// into aggregations and budget computations.
type RestoreEntryUseCase struct {
	entryRepo     adapter.EntryRepository
	invalidator   *statistics.Invalidator
	evaluateOwner *budget.EvaluateOwnerUseCase
}

// NewRestoreEntryUseCase creates a new RestoreEntryUseCase instance.
func NewRestoreEntryUseCase(
	entryRepo adapter.EntryRepository,
	invalidator *statistics.Invalidator,
	evaluateOwner *budget.EvaluateOwnerUseCase,
) *RestoreEntryUseCase {
	return &RestoreEntryUseCase{
		entryRepo:     entryRepo,
		invalidator:   invalidator,
		evaluateOwner: evaluateOwner,
	}
}

// Execute restores the entry after ownership and deletion-state checks.
func (uc *RestoreEntryUseCase) Execute(ctx context.Context, id, ownerID uuid.UUID) error {
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
	if !existing.IsDeleted() {
		return domainerror.NewEntryError(
			domainerror.ErrCodeEntryNotDeleted,
			"entry is not deleted",
			domainerror.ErrEntryNotDeleted,
		)
	}

	if err := uc.entryRepo.Restore(ctx, id); err != nil {
		return fmt.Errorf("failed to restore entry: %w", err)
	}

	propagateMutation(ctx, uc.invalidator, uc.evaluateOwner, ownerID, existing.Date)
	return nil
}
