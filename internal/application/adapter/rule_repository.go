// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// RuleRepository defines the interface for recurring rule persistence.
type RuleRepository interface {
	// Create persists a new recurring rule.
	Create(ctx context.Context, rule *entity.RecurringRule) error

	// FindByID retrieves a rule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurringRule, error)

	// ListActiveDue retrieves up to limit active rules whose cursor falls on
	// or before dueBefore, ordered by cursor ascending then id ascending so
	// repeated paginated calls make progress.
	ListActiveDue(ctx context.Context, dueBefore time.Time, offset, limit int) ([]*entity.RecurringRule, error)

	// AdvanceCursor moves a rule's next-due cursor forward.
	AdvanceCursor(ctx context.Context, ruleID uuid.UUID, nextDue time.Time) error

	// Deactivate transitions a rule to inactive.
	Deactivate(ctx context.Context, ruleID uuid.UUID) error

	// MarkNeedsReview flags a rule for user review after its catch-up was
	// truncated at the cap.
	MarkNeedsReview(ctx context.Context, ruleID uuid.UUID) error
}
