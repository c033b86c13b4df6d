package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"poolpulse/internal/analytics"
	"poolpulse/internal/export"
)

// Composition reports the token balance split and combined APR of two-token
// pools on a single chain, sorted by TVL descending.
type Composition struct {
	api    API
	chain  string
	logger *slog.Logger
}

// NewComposition creates the pool-composition report for one chain.
func NewComposition(api API, chain string, logger *slog.Logger) *Composition {
	return &Composition{
		api:    api,
		chain:  chain,
		logger: logger.With(slog.String("report", "pool_composition")),
	}
}

// Name implements Report.
func (r *Composition) Name() string { return "pool_composition" }

// Run builds one row per pool with at least two tokens. Pools with more than
// two tokens contribute their first two, matching the pair layout of the
// output; the combined APR counts exactly one swap-fee item.
func (r *Composition) Run(ctx context.Context) (*export.Table, error) {
	pools, err := r.api.FetchPools(ctx, []string{r.chain}, 0)
	if err != nil {
		return nil, fmt.Errorf("report: pool-composition: %w", err)
	}

	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].TotalLiquidity > pools[j].TotalLiquidity
	})

	table := export.NewTable("pool_composition",
		"pool_pair", "token1", "token2", "token1_share", "token2_share",
		"tvl_usd", "apr", "url",
	)

	for _, p := range pools {
		if len(p.Tokens) < 2 {
			continue
		}
		t1, t2 := p.Tokens[0], p.Tokens[1]

		var share1, share2 float64
		if p.TotalLiquidity > 0 {
			share1 = t1.BalanceUSD / p.TotalLiquidity
			share2 = t2.BalanceUSD / p.TotalLiquidity
		}

		table.Append(
			fmt.Sprintf("%s / %s", t1.Symbol, t2.Symbol),
			t1.Symbol,
			t2.Symbol,
			export.Rate(share1),
			export.Rate(share2),
			export.USD(p.TotalLiquidity),
			export.Rate(analytics.TotalAPR(p.AprItems)),
			p.URL(),
		)
	}

	r.logger.Info("composition built", slog.Int("pools", table.Len()))
	return table, nil
}
