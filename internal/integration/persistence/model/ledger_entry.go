// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// LedgerEntryModel represents the ledger_entries table in the database.
// The unique index on (rule_id, date) enforces at-most-one materialized entry
// per rule and occurrence date; null rule ids (user-entered entries) do not
// collide.
type LedgerEntryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Kind        string          `gorm:"type:varchar(10);not null;index"`
	Date        time.Time       `gorm:"type:date;not null;index;uniqueIndex:idx_entries_rule_date"`
	Description string          `gorm:"type:varchar(255);not null"`
	Tags        pq.StringArray  `gorm:"type:text[]"`
	RuleID      *uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_entries_rule_date"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"` // Soft-delete support
}

// TableName returns the table name for the LedgerEntryModel.
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToEntity converts a LedgerEntryModel to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToEntity() *entity.LedgerEntry {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	return &entity.LedgerEntry{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		CategoryID:  m.CategoryID,
		Amount:      m.Amount,
		Kind:        entity.EntryKind(m.Kind),
		Date:        m.Date,
		Description: m.Description,
		Tags:        []string(m.Tags),
		RuleID:      m.RuleID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAt,
	}
}

// LedgerEntryFromEntity converts a domain LedgerEntry entity to a model.
func LedgerEntryFromEntity(e *entity.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		CategoryID:  e.CategoryID,
		Amount:      e.Amount,
		Kind:        string(e.Kind),
		Date:        e.Date,
		Description: e.Description,
		Tags:        pq.StringArray(e.Tags),
		RuleID:      e.RuleID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
	return m
}
