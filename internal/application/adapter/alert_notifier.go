// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// AlertNotifier delivers budget alert events to the downstream notification
// sink. The engine only enqueues; transport and formatting live behind this
// interface.
type AlertNotifier interface {
	// Send delivers a single alert. A returned error marks the delivery as
	// failed; the dispatch worker decides whether to retry.
	Send(ctx context.Context, alert *entity.BudgetAlert) error
}
