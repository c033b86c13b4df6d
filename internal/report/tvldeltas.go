package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"poolpulse/internal/analytics"
	"poolpulse/internal/domain"
	"poolpulse/internal/export"
)

// TVLDeltasConfig controls the TVL-deltas report.
type TVLDeltasConfig struct {
	// Chains to scan, in API enum form (MAINNET, ARBITRUM, ...).
	Chains []string

	// Windows are the three analysis windows derived from the incident dates.
	Windows DeltaWindows

	// MinBoundaryTVL skips pools whose TVL at the incident start was below
	// this threshold; their event history is never fetched.
	MinBoundaryTVL float64

	// InterPoolDelay is a pause between pools on top of the client's own
	// rate limiting.
	InterPoolDelay time.Duration
}

// TVLDeltas reports per-pool liquidity flows around an incident: TVL at each
// window boundary, net add/remove flow per window, and how concentrated the
// withdrawals were.
type TVLDeltas struct {
	api    API
	cfg    TVLDeltasConfig
	logger *slog.Logger
}

// NewTVLDeltas creates the TVL-deltas report.
func NewTVLDeltas(api API, cfg TVLDeltasConfig, logger *slog.Logger) *TVLDeltas {
	return &TVLDeltas{
		api:    api,
		cfg:    cfg,
		logger: logger.With(slog.String("report", "tvl_deltas")),
	}
}

// Name implements Report.
func (r *TVLDeltas) Name() string { return "tvl_deltas" }

// Run fetches every pool on the configured chains and walks them one at a
// time. Pools below the boundary-TVL threshold are skipped before their event
// history is fetched; per-pool fetch failures degrade to partial data rather
// than aborting the report.
func (r *TVLDeltas) Run(ctx context.Context) (*export.Table, error) {
	pools, err := r.api.FetchPools(ctx, r.cfg.Chains, 0)
	if err != nil {
		return nil, fmt.Errorf("report: tvl-deltas: %w", err)
	}
	r.logger.Info("pools fetched", slog.Int("count", len(pools)))

	w := r.cfg.Windows
	windows := w.Windows()

	table := export.NewTable("tvl_deltas",
		"pool",
		"tvl_incident_start", "net_flow_incident", "addresses_70pct_incident", "top_remover_incident",
		"tvl_incident_end", "net_flow_post_incident", "addresses_70pct_post_incident", "top_remover_post_incident",
		"tvl_7d_ago", "net_flow_recent_7d", "addresses_70pct_recent_7d", "top_remover_recent_7d",
		"tvl_today", "volume_24h", "swap_fee",
		"pool_type", "chain", "version", "url",
	)

	for i, p := range pools {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger := r.logger.With(
			slog.String("pool", p.Symbol),
			slog.String("chain", p.Chain),
		)
		logger.Debug("processing pool", slog.Int("index", i+1), slog.Int("total", len(pools)))

		snaps, err := r.api.FetchSnapshots(ctx, p.ID, p.Chain, domain.RangeNinetyDays)
		if err != nil {
			logger.Warn("snapshot fetch failed", slog.String("error", err.Error()))
		}

		boundaryTVL := analytics.NearestTVL(snaps, w.IncidentStart)
		if boundaryTVL < r.cfg.MinBoundaryTVL {
			logger.Debug("skipping pool below boundary TVL",
				slog.Float64("tvl", boundaryTVL),
				slog.Float64("min", r.cfg.MinBoundaryTVL),
			)
			continue
		}

		// A mid-pagination failure still yields the events collected so far;
		// report what we have rather than dropping the pool.
		events, err := r.api.FetchPoolEvents(ctx, p.ID, p.Chain, w.IncidentStart)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("event fetch incomplete",
				slog.Int("events", len(events)),
				slog.String("error", err.Error()),
			)
		}

		results := analytics.Aggregate(events, windows)

		row := []string{p.Symbol}
		boundaries := map[string]int64{
			WindowIncident:     w.IncidentStart,
			WindowPostIncident: w.IncidentEndStart,
			WindowRecent:       w.SevenDaysAgo,
		}
		for _, name := range []string{WindowIncident, WindowPostIncident, WindowRecent} {
			res := results[name]
			count, actor := analytics.Concentration(res.RemovalsByActor, res.TotalRemoves)
			row = append(row,
				export.USD(analytics.NearestTVL(snaps, boundaries[name])),
				export.USD(res.NetFlow()),
				export.Int(count),
				actor,
			)
		}
		row = append(row,
			export.USD(p.TotalLiquidity),
			export.USD(p.Volume24h),
			export.Float(p.SwapFee),
			p.Type,
			p.Chain,
			export.Int(p.ProtocolVersion),
			p.URL(),
		)
		table.Append(row...)

		if r.cfg.InterPoolDelay > 0 {
			if err := sleepCtx(ctx, r.cfg.InterPoolDelay); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
