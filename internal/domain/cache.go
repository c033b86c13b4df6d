package domain

import "context"

// PoolCache caches fetched pool lists and snapshot series between closely
// spaced runs so repeated reports do not refetch the same data. Implementations
// return ErrNotFound on a miss.
type PoolCache interface {
	SetPools(ctx context.Context, key string, pools []Pool) error
	GetPools(ctx context.Context, key string) ([]Pool, error)
	SetSnapshots(ctx context.Context, chain, poolID, dataRange string, snaps []PoolSnapshot) error
	GetSnapshots(ctx context.Context, chain, poolID, dataRange string) ([]PoolSnapshot, error)
}
