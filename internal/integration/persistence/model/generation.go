// Package model defines database models for persistence layer.
package model

import (
	"github.com/google/uuid"
)

// GenerationModel represents the ledger_generations table: a per-(owner,
// period) version stamp incremented on any mutation affecting that period.
// Stale snapshots are detected by comparing against this counter.
type GenerationModel struct {
	OwnerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Period  string    `gorm:"type:varchar(10);primaryKey"`
	Counter int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for the GenerationModel.
func (GenerationModel) TableName() string {
	return "ledger_generations"
}
