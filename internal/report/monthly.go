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

// Monthly reports per-pool business metrics over the trailing month: TVL
// change, swap volume and fees over 7 and 30 days, and the pool's creation
// date. Only pools above the TVL floor are included.
type Monthly struct {
	api    API
	minTVL float64
	logger *slog.Logger
}

// NewMonthly creates the monthly report. minTVL filters the pool list at the
// API level.
func NewMonthly(api API, minTVL float64, logger *slog.Logger) *Monthly {
	return &Monthly{
		api:    api,
		minTVL: minTVL,
		logger: logger.With(slog.String("report", "monthly")),
	}
}

// Name implements Report.
func (r *Monthly) Name() string { return "monthly" }

// Run fetches thirty days of snapshots per pool. The 30-day columns need a
// full month of history; the 7-day columns are filled whenever at least a
// week is available. Missing history leaves the columns at zero.
func (r *Monthly) Run(ctx context.Context) (*export.Table, error) {
	pools, err := r.api.FetchPools(ctx, nil, r.minTVL)
	if err != nil {
		return nil, fmt.Errorf("report: monthly: %w", err)
	}

	table := export.NewTable("monthly",
		"pool_pair", "type", "creation_date", "tvl_usd",
		"tvl_change_7d_pct", "tvl_change_30d_pct",
		"volume_7d_usd", "volume_30d_usd",
		"fees_7d_usd", "fees_30d_usd",
		"url",
	)

	for _, p := range pools {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snaps, err := r.api.FetchSnapshots(ctx, p.ID, p.Chain, domain.RangeThirtyDays)
		if err != nil {
			r.logger.Warn("snapshot fetch failed",
				slog.String("pool", p.Symbol),
				slog.String("chain", p.Chain),
				slog.String("error", err.Error()),
			)
		}

		var change7, change30, volume7, volume30, fees7, fees30 float64
		if past, vol, fees, ok := analytics.TrailingStats(snaps, 7); ok {
			change7 = analytics.ChangeRatio(p.TotalLiquidity, past)
			volume7, fees7 = vol, fees
		}
		if past, vol, fees, ok := analytics.TrailingStats(snaps, 30); ok {
			change30 = analytics.ChangeRatio(p.TotalLiquidity, past)
			volume30, fees30 = vol, fees
		}

		var created string
		if p.CreateTime > 0 {
			created = time.Unix(p.CreateTime, 0).UTC().Format("2006-01-02")
		}

		table.Append(
			p.PairName(),
			p.Type,
			created,
			export.USD(p.TotalLiquidity),
			export.Percent(change7),
			export.Percent(change30),
			export.USD(volume7),
			export.USD(volume30),
			export.USD(fees7),
			export.USD(fees30),
			p.URL(),
		)
	}

	r.logger.Info("monthly report built", slog.Int("pools", table.Len()))
	return table, nil
}
