// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/engine/internal/domain/error"
	"github.com/finance-tracker/engine/internal/integration/persistence/model"
)

// ruleRepository implements the adapter.RuleRepository interface.
type ruleRepository struct {
	db *gorm.DB
}

// NewRuleRepository creates a new recurring rule repository instance.
func NewRuleRepository(db *gorm.DB) adapter.RuleRepository {
	return &ruleRepository{
		db: db,
	}
}

// Create persists a new recurring rule.
func (r *ruleRepository) Create(ctx context.Context, rule *entity.RecurringRule) error {
	ruleModel := model.RecurringRuleFromEntity(rule)
	return r.db.WithContext(ctx).Create(ruleModel).Error
}

// FindByID retrieves a rule by its ID.
func (r *ruleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurringRule, error) {
	var ruleModel model.RecurringRuleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// ListActiveDue retrieves up to limit active rules whose cursor falls on or
// before dueBefore. Ordering by cursor then id keeps repeated paginated calls
// stable within a tick.
func (r *ruleRepository) ListActiveDue(ctx context.Context, dueBefore time.Time, offset, limit int) ([]*entity.RecurringRule, error) {
	var ruleModels []model.RecurringRuleModel
	result := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("next_due <= ?", dueBefore).
		Order("next_due ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.RecurringRule, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntity()
	}
	return rules, nil
}

// AdvanceCursor moves a rule's next-due cursor forward.
func (r *ruleRepository) AdvanceCursor(ctx context.Context, ruleID uuid.UUID, nextDue time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.RecurringRuleModel{}).
		Where("id = ?", ruleID).
		Updates(map[string]interface{}{
			"next_due":   nextDue,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRuleNotFound
	}
	return nil
}

// Deactivate transitions a rule to inactive.
func (r *ruleRepository) Deactivate(ctx context.Context, ruleID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.RecurringRuleModel{}).
		Where("id = ?", ruleID).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRuleNotFound
	}
	return nil
}

// MarkNeedsReview flags a rule for user review after a truncated catch-up.
func (r *ruleRepository) MarkNeedsReview(ctx context.Context, ruleID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.RecurringRuleModel{}).
		Where("id = ?", ruleID).
		Updates(map[string]interface{}{
			"needs_review": true,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRuleNotFound
	}
	return nil
}
