// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// RecurringRuleModel represents the recurring_rules table in the database.
type RecurringRuleModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Kind        string          `gorm:"type:varchar(10);not null"`
	Description string          `gorm:"type:varchar(255);not null"`
	Frequency   string          `gorm:"type:varchar(10);not null"`
	Interval    int             `gorm:"not null;default:1"`
	DayOfWeek   *int            `gorm:"type:integer"`
	DayOfMonth  int             `gorm:"type:integer"`
	MonthOfYear int             `gorm:"type:integer"`
	StartDate   time.Time       `gorm:"type:date;not null"`
	EndDate     *time.Time      `gorm:"type:date"`
	NextDue     time.Time       `gorm:"type:date;not null;index"`
	Active      bool            `gorm:"not null;default:true;index"`
	NeedsReview bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the RecurringRuleModel.
func (RecurringRuleModel) TableName() string {
	return "recurring_rules"
}

// ToEntity converts a RecurringRuleModel to a domain RecurringRule entity.
func (m *RecurringRuleModel) ToEntity() *entity.RecurringRule {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	var dayOfWeek *time.Weekday
	if m.DayOfWeek != nil {
		wd := time.Weekday(*m.DayOfWeek)
		dayOfWeek = &wd
	}

	return &entity.RecurringRule{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		CategoryID:  m.CategoryID,
		Amount:      m.Amount,
		Kind:        entity.EntryKind(m.Kind),
		Description: m.Description,
		Frequency:   entity.Frequency(m.Frequency),
		Interval:    m.Interval,
		DayOfWeek:   dayOfWeek,
		DayOfMonth:  m.DayOfMonth,
		MonthOfYear: time.Month(m.MonthOfYear),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		NextDue:     m.NextDue,
		Active:      m.Active,
		NeedsReview: m.NeedsReview,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// RecurringRuleFromEntity converts a domain RecurringRule entity to a model.
func RecurringRuleFromEntity(r *entity.RecurringRule) *RecurringRuleModel {
	m := &RecurringRuleModel{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Kind:        string(r.Kind),
		Description: r.Description,
		Frequency:   string(r.Frequency),
		Interval:    r.Interval,
		DayOfMonth:  r.DayOfMonth,
		MonthOfYear: int(r.MonthOfYear),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		NextDue:     r.NextDue,
		Active:      r.Active,
		NeedsReview: r.NeedsReview,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.DayOfWeek != nil {
		wd := int(*r.DayOfWeek)
		m.DayOfWeek = &wd
	}
	if r.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	}
	return m
}
