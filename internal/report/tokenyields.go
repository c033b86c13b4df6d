package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"poolpulse/internal/analytics"
	"poolpulse/internal/export"
)

// TokenYields reports, for one chain, every pool token currently earning a
// reward yield, matched by reward token address against the pool's APR items.
type TokenYields struct {
	api    API
	chain  string
	logger *slog.Logger
}

// NewTokenYields creates the token-yields report for one chain.
func NewTokenYields(api API, chain string, logger *slog.Logger) *TokenYields {
	return &TokenYields{
		api:    api,
		chain:  chain,
		logger: logger.With(slog.String("report", "token_yields")),
	}
}

// Name implements Report.
func (r *TokenYields) Name() string { return "token_yields" }

// Run emits one row per (pool, token) pair whose token address matches a
// non-zero reward yield, sorted by yield descending then symbol.
func (r *TokenYields) Run(ctx context.Context) (*export.Table, error) {
	pools, err := r.api.FetchPools(ctx, []string{r.chain}, 0)
	if err != nil {
		return nil, fmt.Errorf("report: token-yields: %w", err)
	}

	type yieldRow struct {
		symbol  string
		yield   float64
		pool    string
		poolURL string
	}
	var rows []yieldRow

	for _, p := range pools {
		byReward := analytics.YieldByRewardToken(p.AprItems)
		if len(byReward) == 0 {
			continue
		}
		for _, t := range p.Tokens {
			addr := strings.ToLower(t.Address)
			if addr == "" {
				continue
			}
			if y, ok := byReward[addr]; ok && y != 0 {
				rows = append(rows, yieldRow{
					symbol:  t.Symbol,
					yield:   y,
					pool:    p.PairName(),
					poolURL: p.URL(),
				})
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].yield != rows[j].yield {
			return rows[i].yield > rows[j].yield
		}
		return rows[i].symbol < rows[j].symbol
	})

	table := export.NewTable("token_yields", "token_symbol", "token_yield", "pool", "pool_url")
	for _, row := range rows {
		table.Append(row.symbol, export.Rate(row.yield), row.pool, row.poolURL)
	}

	r.logger.Info("token yields built", slog.Int("tokens", table.Len()))
	return table, nil
}
