// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
	"github.com/finance-tracker/engine/internal/domain/valueobject"
	"github.com/finance-tracker/engine/internal/integration/persistence/model"
)

// entryRepository implements the adapter.EntryRepository interface.
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new ledger entry repository instance.
func NewEntryRepository(db *gorm.DB) adapter.EntryRepository {
	return &entryRepository{
		db: db,
	}
}

// Create persists a new ledger entry and bumps the affected generation
// counters in the same transaction. Rule-originated entries are idempotent on
// (rule_id, date): a conflicting insert leaves the existing row untouched and
// returns ErrMaterializationConflict.
func (r *entryRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	entryModel := model.LedgerEntryFromEntity(entry)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if entry.RuleID != nil {
			query = query.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "rule_id"}, {Name: "date"}},
				DoNothing: true,
			})
		}

		result := query.Create(entryModel)
		if result.Error != nil {
			return result.Error
		}
		if entry.RuleID != nil && result.RowsAffected == 0 {
			return domainerror.ErrMaterializationConflict
		}

		return bumpGenerationsForDate(tx, entry.OwnerID, entry.Date)
	})
}

// FindByID retrieves an entry by its ID, including soft-deleted ones.
func (r *entryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	var entryModel model.LedgerEntryModel
	result := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&entryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrEntryNotFound
		}
		return nil, result.Error
	}
	return entryModel.ToEntity(), nil
}

// ListActive retrieves non-deleted entries matching the filter, ordered by
// occurrence date ascending.
func (r *entryRepository) ListActive(ctx context.Context, filter adapter.EntryFilter) ([]*entity.LedgerEntry, error) {
	query := r.db.WithContext(ctx).
		Where("owner_id = ?", filter.OwnerID).
		Where("date >= ? AND date <= ?", filter.StartDate, filter.EndDate)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", string(*filter.Kind))
	}

	var entryModels []model.LedgerEntryModel
	result := query.Order("date ASC, created_at ASC").Find(&entryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*entity.LedgerEntry, len(entryModels))
	for i, em := range entryModels {
		entries[i] = em.ToEntity()
	}
	return entries, nil
}

// Update persists edits to an entry's mutable fields, bumping the counters of
// both the old and the new occurrence date when the edit moved the entry.
func (r *entryRepository) Update(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.LedgerEntryModel
		if err := tx.Unscoped().Where("id = ?", entry.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrEntryNotFound
			}
			return err
		}

		entryModel := model.LedgerEntryFromEntity(entry)
		if err := tx.Unscoped().Save(entryModel).Error; err != nil {
			return err
		}

		if err := bumpGenerationsForDate(tx, entry.OwnerID, existing.Date); err != nil {
			return err
		}
		if !sameDate(existing.Date, entry.Date) {
			return bumpGenerationsForDate(tx, entry.OwnerID, entry.Date)
		}
		return nil
	})
}

// SoftDelete marks an entry deleted without removing the row.
func (r *entryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.LedgerEntryModel
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrEntryNotFound
			}
			return err
		}

		if err := tx.Delete(&model.LedgerEntryModel{}, "id = ?", id).Error; err != nil {
			return err
		}

		return bumpGenerationsForDate(tx, existing.OwnerID, existing.Date)
	})
}

// Restore clears the soft-delete marker of an entry.
func (r *entryRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.LedgerEntryModel
		if err := tx.Unscoped().Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrEntryNotFound
			}
			return err
		}

		if err := tx.Unscoped().
			Model(&model.LedgerEntryModel{}).
			Where("id = ?", id).
			Update("deleted_at", nil).Error; err != nil {
			return err
		}

		return bumpGenerationsForDate(tx, existing.OwnerID, existing.Date)
	})
}

// GetGenerationCounter returns the current generation stamp for the
// (owner, period) key. A key never mutated reports 0.
func (r *entryRepository) GetGenerationCounter(ctx context.Context, ownerID uuid.UUID, period string) (int64, error) {
	var gen model.GenerationModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND period = ?", ownerID, period).
		First(&gen)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, result.Error
	}
	return gen.Counter, nil
}

// BumpGeneration increments the generation stamp for the (owner, period) key,
// creating it at 1 when absent.
func (r *entryRepository) BumpGeneration(ctx context.Context, ownerID uuid.UUID, period string) error {
	return bumpGeneration(r.db.WithContext(ctx), ownerID, period)
}

// bumpGenerationsForDate increments the counters of every period containing
// the date, plus each following period of equal length: their trend is
// computed against the mutated period, so their snapshots go stale too.
func bumpGenerationsForDate(tx *gorm.DB, ownerID uuid.UUID, date time.Time) error {
	for _, period := range valueobject.PeriodsForDate(date) {
		if err := bumpGeneration(tx, ownerID, period.String()); err != nil {
			return err
		}
		if err := bumpGeneration(tx, ownerID, period.Next().String()); err != nil {
			return err
		}
	}
	return nil
}

// bumpGeneration upserts a single counter with an atomic increment.
func bumpGeneration(tx *gorm.DB, ownerID uuid.UUID, period string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "period"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"counter": gorm.Expr("ledger_generations.counter + 1")}),
	}).Create(&model.GenerationModel{
		OwnerID: ownerID,
		Period:  period,
		Counter: 1,
	}).Error
}

// sameDate compares calendar dates ignoring time-of-day and location.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
