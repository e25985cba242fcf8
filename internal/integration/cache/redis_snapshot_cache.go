// Package cache implements the statistics snapshot cache on redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
)

// redisSnapshotCache implements the adapter.SnapshotCache interface.
type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotCache creates a new redis-backed snapshot cache. A zero ttl
// keeps snapshots until invalidated.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) adapter.SnapshotCache {
	return &redisSnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the snapshot for the (owner, period) key, or nil on miss.
func (c *redisSnapshotCache) Get(ctx context.Context, ownerID uuid.UUID, period string) (*entity.StatisticsSnapshot, error) {
	payload, err := c.client.Get(ctx, snapshotKey(ownerID, period)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var snapshot entity.StatisticsSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		// A corrupt value is indistinguishable from a miss; the next read
		// recomputes and overwrites it.
		return nil, nil
	}
	return &snapshot, nil
}

// Put stores a snapshot under its (owner, period) key.
func (c *redisSnapshotCache) Put(ctx context.Context, snapshot *entity.StatisticsSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(snapshot.OwnerID, snapshot.Period), payload, c.ttl).Err()
}

// Invalidate deletes the snapshot for the (owner, period) key. Deleting an
// absent key is a no-op.
func (c *redisSnapshotCache) Invalidate(ctx context.Context, ownerID uuid.UUID, period string) error {
	return c.client.Del(ctx, snapshotKey(ownerID, period)).Err()
}

// snapshotKey builds the redis key for an (owner, period) snapshot.
func snapshotKey(ownerID uuid.UUID, period string) string {
	return fmt.Sprintf("stats:%s:%s", ownerID.String(), period)
}
