// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// BudgetModel represents the budgets table in the database.
type BudgetModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	TargetAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Period         string          `gorm:"type:varchar(10);not null"`
	StartDate      time.Time       `gorm:"type:date;not null"`
	EndDate        *time.Time      `gorm:"type:date"`
	AlertThreshold decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	Active         bool            `gorm:"not null;default:true;index"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the BudgetModel.
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToEntity converts a BudgetModel to a domain Budget entity.
func (m *BudgetModel) ToEntity() *entity.Budget {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.Budget{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		CategoryID:     m.CategoryID,
		TargetAmount:   m.TargetAmount,
		Period:         entity.BudgetPeriod(m.Period),
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		AlertThreshold: m.AlertThreshold,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      deletedAt,
	}
}

// BudgetFromEntity converts a domain Budget entity to a model.
func BudgetFromEntity(b *entity.Budget) *BudgetModel {
	m := &BudgetModel{
		ID:             b.ID,
		OwnerID:        b.OwnerID,
		CategoryID:     b.CategoryID,
		TargetAmount:   b.TargetAmount,
		Period:         string(b.Period),
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		AlertThreshold: b.AlertThreshold,
		Active:         b.Active,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *b.DeletedAt, Valid: true}
	}
	return m
}

// BudgetAlertModel represents the budget_alerts table in the database.
type BudgetAlertModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BudgetID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_alerts_budget_window"`
	Kind        string          `gorm:"type:varchar(10);not null;index:idx_alerts_budget_window"`
	WindowStart time.Time       `gorm:"type:date;not null;index:idx_alerts_budget_window"`
	WindowEnd   time.Time       `gorm:"type:date;not null"`
	PercentUsed decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	TriggeredAt time.Time       `gorm:"not null"`
	Delivered   bool            `gorm:"not null;default:false;index"`
	DeliveredAt *time.Time      `gorm:"type:timestamp"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BudgetAlertModel.
func (BudgetAlertModel) TableName() string {
	return "budget_alerts"
}

// ToEntity converts a BudgetAlertModel to a domain BudgetAlert entity.
func (m *BudgetAlertModel) ToEntity() *entity.BudgetAlert {
	return &entity.BudgetAlert{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		BudgetID:    m.BudgetID,
		Kind:        entity.AlertKind(m.Kind),
		WindowStart: m.WindowStart,
		WindowEnd:   m.WindowEnd,
		PercentUsed: m.PercentUsed,
		TriggeredAt: m.TriggeredAt,
		Delivered:   m.Delivered,
		DeliveredAt: m.DeliveredAt,
		CreatedAt:   m.CreatedAt,
	}
}

// BudgetAlertFromEntity converts a domain BudgetAlert entity to a model.
func BudgetAlertFromEntity(a *entity.BudgetAlert) *BudgetAlertModel {
	return &BudgetAlertModel{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		BudgetID:    a.BudgetID,
		Kind:        string(a.Kind),
		WindowStart: a.WindowStart,
		WindowEnd:   a.WindowEnd,
		PercentUsed: a.PercentUsed,
		TriggeredAt: a.TriggeredAt,
		Delivered:   a.Delivered,
		DeliveredAt: a.DeliveredAt,
		CreatedAt:   a.CreatedAt,
	}
}
