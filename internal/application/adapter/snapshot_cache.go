// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/engine/internal/domain/entity"
)

// SnapshotCache defines the interface for the statistics snapshot cache.
// Writers only ever delete and let the next read recompute; snapshots are
// never patched in place.
type SnapshotCache interface {
	// Get retrieves the snapshot for the (owner, period) key, or nil on miss.
	Get(ctx context.Context, ownerID uuid.UUID, period string) (*entity.StatisticsSnapshot, error)

	// Put stores a snapshot under its (owner, period) key. Concurrent puts
	// for the same key may race; last writer wins.
	Put(ctx context.Context, snapshot *entity.StatisticsSnapshot) error

	// Invalidate deletes the snapshot for the (owner, period) key. Deleting
	// an absent key is a no-op.
	Invalidate(ctx context.Context, ownerID uuid.UUID, period string) error
}
