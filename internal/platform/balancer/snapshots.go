package balancer

import (
	"context"
	"encoding/json"
	"fmt"

	"poolpulse/internal/domain"
)

// FetchSnapshots queries a pool's daily balance history over the given range
// (domain.RangeThirtyDays or domain.RangeNinetyDays).
// Snapshots are returned oldest first, as the API serves them.
func (c *Client) FetchSnapshots(ctx context.Context, poolID, chain, dataRange string) ([]domain.PoolSnapshot, error) {
	query := `
		query PoolSnapshots($id: String!, $chain: GqlChain!, $range: GqlPoolSnapshotDataRange!) {
			poolGetSnapshots(id: $id, chain: $chain, range: $range) {
				timestamp
				totalLiquidity
				totalSwapVolume
				totalSwapFee
			}
		}
	`

	variables := map[string]any{
		"id":    poolID,
		"chain": chain,
		"range": dataRange,
	}

	respData, err := c.doQuery(ctx, query, variables)
	if err != nil {
		return nil, fmt.Errorf("balancer: fetch snapshots for pool %s: %w", poolID, err)
	}

	var result struct {
		PoolGetSnapshots []struct {
			Timestamp       int64  `json:"timestamp"`
			TotalLiquidity  string `json:"totalLiquidity"`
			TotalSwapVolume string `json:"totalSwapVolume"`
			TotalSwapFee    string `json:"totalSwapFee"`
		} `json:"poolGetSnapshots"`
	}
	if err := json.Unmarshal(respData, &result); err != nil {
		return nil, fmt.Errorf("balancer: decode snapshots for pool %s: %w", poolID, err)
	}

	snaps := make([]domain.PoolSnapshot, 0, len(result.PoolGetSnapshots))
	for _, s := range result.PoolGetSnapshots {
		snaps = append(snaps, domain.PoolSnapshot{
			Timestamp:       s.Timestamp,
			TotalLiquidity:  domain.ParseDecimalOrZero(s.TotalLiquidity),
			TotalSwapVolume: domain.ParseDecimalOrZero(s.TotalSwapVolume),
			TotalSwapFee:    domain.ParseDecimalOrZero(s.TotalSwapFee),
		})
	}

	return snaps, nil
}
