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

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// Create persists a new budget.
func (r *budgetRepository) Create(ctx context.Context, budget *entity.Budget) error {
	budgetModel := model.BudgetFromEntity(budget)
	return r.db.WithContext(ctx).Create(budgetModel).Error
}

// FindByID retrieves a budget by its ID.
func (r *budgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// ListActive retrieves all active, non-deleted budgets for an owner.
func (r *budgetRepository) ListActive(ctx context.Context, ownerID uuid.UUID) ([]*entity.Budget, error) {
	var budgetModels []model.BudgetModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&budgetModels)
	if result.Error != nil {
		return nil, result.Error
	}

	budgets := make([]*entity.Budget, len(budgetModels))
	for i, bm := range budgetModels {
		budgets[i] = bm.ToEntity()
	}
	return budgets, nil
}

// RecordAlert persists a new alert event.
func (r *budgetRepository) RecordAlert(ctx context.Context, alert *entity.BudgetAlert) error {
	alertModel := model.BudgetAlertFromEntity(alert)
	return r.db.WithContext(ctx).Create(alertModel).Error
}

// HasAlertForWindow reports whether an alert of the given kind already
// exists for the budget's window starting at windowStart. Delivery does not
// reset eligibility: within one window an alert fires at most once, delivered
// or not. Window rollover is the only reset.
func (r *budgetRepository) HasAlertForWindow(ctx context.Context, budgetID uuid.UUID, kind entity.AlertKind, windowStart time.Time) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.BudgetAlertModel{}).
		Where("budget_id = ?", budgetID).
		Where("kind = ?", string(kind)).
		Where("window_start = ?", windowStart).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// ListUndeliveredAlerts retrieves up to limit undelivered alerts, oldest
// first, for the notification worker.
func (r *budgetRepository) ListUndeliveredAlerts(ctx context.Context, limit int) ([]*entity.BudgetAlert, error) {
	var alertModels []model.BudgetAlertModel
	result := r.db.WithContext(ctx).
		Where("delivered = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&alertModels)
	if result.Error != nil {
		return nil, result.Error
	}

	alerts := make([]*entity.BudgetAlert, len(alertModels))
	for i, am := range alertModels {
		alerts[i] = am.ToEntity()
	}
	return alerts, nil
}

// MarkAlertDelivered flags an alert as handed off for delivery.
func (r *budgetRepository) MarkAlertDelivered(ctx context.Context, alertID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetAlertModel{}).
		Where("id = ?", alertID).
		Updates(map[string]interface{}{
			"delivered":    true,
			"delivered_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}
