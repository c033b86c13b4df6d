package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"poolpulse/internal/domain"
)

// PoolCache implements domain.PoolCache using JSON-serialized values with a
// fixed TTL.
//
// Key schema:
//
//	pools:{key}                        - JSON array of pools
//	snapshots:{chain}:{poolID}:{range} - JSON array of snapshots
type PoolCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPoolCache creates a PoolCache backed by the given Client. Entries expire
// after ttl.
func NewPoolCache(c *Client, ttl time.Duration) *PoolCache {
	return &PoolCache{rdb: c.Underlying(), ttl: ttl}
}

func poolsCacheKey(key string) string {
	return "pools:" + key
}

func snapshotsCacheKey(chain, poolID, dataRange string) string {
	return fmt.Sprintf("snapshots:%s:%s:%s", chain, poolID, dataRange)
}

// SetPools stores a fetched pool list under the given key.
func (pc *PoolCache) SetPools(ctx context.Context, key string, pools []domain.Pool) error {
	data, err := json.Marshal(pools)
	if err != nil {
		return fmt.Errorf("redis: marshal pools %s: %w", key, err)
	}
	if err := pc.rdb.Set(ctx, poolsCacheKey(key), data, pc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set pools %s: %w", key, err)
	}
	return nil
}

// GetPools retrieves a cached pool list. It returns domain.ErrNotFound when
// the key does not exist.
func (pc *PoolCache) GetPools(ctx context.Context, key string) ([]domain.Pool, error) {
	data, err := pc.rdb.Get(ctx, poolsCacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get pools %s: %w", key, err)
	}

	var pools []domain.Pool
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("redis: unmarshal pools %s: %w", key, err)
	}
	return pools, nil
}

// SetSnapshots stores a pool's snapshot series.
func (pc *PoolCache) SetSnapshots(ctx context.Context, chain, poolID, dataRange string, snaps []domain.PoolSnapshot) error {
	data, err := json.Marshal(snaps)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshots %s: %w", poolID, err)
	}
	if err := pc.rdb.Set(ctx, snapshotsCacheKey(chain, poolID, dataRange), data, pc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set snapshots %s: %w", poolID, err)
	}
	return nil
}

// GetSnapshots retrieves a cached snapshot series. It returns
// domain.ErrNotFound when the key does not exist.
func (pc *PoolCache) GetSnapshots(ctx context.Context, chain, poolID, dataRange string) ([]domain.PoolSnapshot, error) {
	data, err := pc.rdb.Get(ctx, snapshotsCacheKey(chain, poolID, dataRange)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get snapshots %s: %w", poolID, err)
	}

	var snaps []domain.PoolSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("redis: unmarshal snapshots %s: %w", poolID, err)
	}
	return snaps, nil
}

// Compile-time interface check.
var _ domain.PoolCache = (*PoolCache)(nil)
