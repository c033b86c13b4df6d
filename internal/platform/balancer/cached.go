package balancer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"poolpulse/internal/domain"
)

// CachedClient wraps a Client with a read-through cache for pool lists and
// snapshot series. Events are never cached; they must always reflect the
// current pagination state. A cache failure degrades to a direct fetch.
type CachedClient struct {
	inner  *Client
	cache  domain.PoolCache
	logger *slog.Logger
}

// NewCachedClient creates a read-through caching wrapper around c.
func NewCachedClient(c *Client, cache domain.PoolCache, logger *slog.Logger) *CachedClient {
	return &CachedClient{
		inner:  c,
		cache:  cache,
		logger: logger.With(slog.String("component", "balancer_cache")),
	}
}

// FetchPools returns the cached pool list for the chain/TVL combination when
// present, fetching and populating the cache otherwise.
func (cc *CachedClient) FetchPools(ctx context.Context, chains []string, minTVL float64) ([]domain.Pool, error) {
	key := poolsKey(chains, minTVL)

	pools, err := cc.cache.GetPools(ctx, key)
	if err == nil {
		return pools, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		cc.logger.Warn("pool cache read failed", slog.String("error", err.Error()))
	}

	pools, err = cc.inner.FetchPools(ctx, chains, minTVL)
	if err != nil {
		return nil, err
	}
	if err := cc.cache.SetPools(ctx, key, pools); err != nil {
		cc.logger.Warn("pool cache write failed", slog.String("error", err.Error()))
	}
	return pools, nil
}

// FetchSnapshots returns cached snapshots for the pool and range when
// present, fetching and populating the cache otherwise.
func (cc *CachedClient) FetchSnapshots(ctx context.Context, poolID, chain, dataRange string) ([]domain.PoolSnapshot, error) {
	snaps, err := cc.cache.GetSnapshots(ctx, chain, poolID, dataRange)
	if err == nil {
		return snaps, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		cc.logger.Warn("snapshot cache read failed", slog.String("error", err.Error()))
	}

	snaps, err = cc.inner.FetchSnapshots(ctx, poolID, chain, dataRange)
	if err != nil {
		return nil, err
	}
	if err := cc.cache.SetSnapshots(ctx, chain, poolID, dataRange, snaps); err != nil {
		cc.logger.Warn("snapshot cache write failed", slog.String("error", err.Error()))
	}
	return snaps, nil
}

// FetchPoolEvents always hits the API.
func (cc *CachedClient) FetchPoolEvents(ctx context.Context, poolID, chain string, since int64) ([]domain.PoolEvent, error) {
	return cc.inner.FetchPoolEvents(ctx, poolID, chain, since)
}

// FetchTokens always hits the API; token metadata is fetched once per run.
func (cc *CachedClient) FetchTokens(ctx context.Context, chain string) ([]domain.Token, error) {
	return cc.inner.FetchTokens(ctx, chain)
}

func poolsKey(chains []string, minTVL float64) string {
	return fmt.Sprintf("%s:%g", strings.Join(chains, ","), minTVL)
}
