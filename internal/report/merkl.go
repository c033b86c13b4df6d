package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"poolpulse/internal/analytics"
	"poolpulse/internal/export"
)

// MerklIncentives reports pools on one chain carrying a positive Merkl
// incentive APR, sorted by APR descending then TVL descending.
type MerklIncentives struct {
	api    API
	chain  string
	logger *slog.Logger
}

// NewMerklIncentives creates the Merkl-incentives report for one chain.
func NewMerklIncentives(api API, chain string, logger *slog.Logger) *MerklIncentives {
	return &MerklIncentives{
		api:    api,
		chain:  chain,
		logger: logger.With(slog.String("report", "merkl_incentives")),
	}
}

// Name implements Report.
func (r *MerklIncentives) Name() string { return "merkl_incentives" }

// Run sums MERKL APR items per pool and keeps pools where the sum is
// positive.
func (r *MerklIncentives) Run(ctx context.Context) (*export.Table, error) {
	pools, err := r.api.FetchPools(ctx, []string{r.chain}, 0)
	if err != nil {
		return nil, fmt.Errorf("report: merkl-incentives: %w", err)
	}

	type merklRow struct {
		pool string
		apr  float64
		tvl  float64
		url  string
	}
	var rows []merklRow

	for _, p := range pools {
		apr := analytics.MerklAPR(p.AprItems)
		if apr <= 0 {
			continue
		}
		rows = append(rows, merklRow{
			pool: p.PairName(),
			apr:  apr,
			tvl:  p.TotalLiquidity,
			url:  p.URL(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].apr != rows[j].apr {
			return rows[i].apr > rows[j].apr
		}
		return rows[i].tvl > rows[j].tvl
	})

	table := export.NewTable("merkl_incentives", "pool", "merkl_apr", "tvl_usd", "pool_url")
	for _, row := range rows {
		table.Append(row.pool, export.Rate(row.apr), export.USD(row.tvl), row.url)
	}

	r.logger.Info("merkl incentives built", slog.Int("pools", table.Len()))
	return table, nil
}
