// Package report implements the individual analytics reports and the runner
// that executes them.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"poolpulse/internal/domain"
	"poolpulse/internal/export"
)

// API is the slice of the analytics API the reports consume.
type API interface {
	FetchPools(ctx context.Context, chains []string, minTVL float64) ([]domain.Pool, error)
	FetchPoolEvents(ctx context.Context, poolID, chain string, since int64) ([]domain.PoolEvent, error)
	FetchSnapshots(ctx context.Context, poolID, chain, dataRange string) ([]domain.PoolSnapshot, error)
	FetchTokens(ctx context.Context, chain string) ([]domain.Token, error)
}

// Report produces one exportable table.
type Report interface {
	Name() string
	Run(ctx context.Context) (*export.Table, error)
}

// Runner executes reports and hands finished tables to the exporter. A
// failing report is logged and does not stop the others; Run reports the
// failure count at the end.
type Runner struct {
	exporter export.Exporter
	limit    int
	logger   *slog.Logger
}

// NewRunner creates a Runner. limit bounds how many reports run at once;
// values below 1 mean strictly sequential.
func NewRunner(exporter export.Exporter, limit int, logger *slog.Logger) *Runner {
	if limit < 1 {
		limit = 1
	}
	return &Runner{
		exporter: exporter,
		limit:    limit,
		logger:   logger.With(slog.String("component", "runner")),
	}
}

// Run executes all reports and exports their tables. It returns an error when
// the context is cancelled or when at least one report failed.
func (r *Runner) Run(ctx context.Context, reports []Report) error {
	var failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for _, rep := range reports {
		g.Go(func() error {
			logger := r.logger.With(slog.String("report", rep.Name()))
			logger.Info("report started")

			table, err := rep.Run(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failed.Add(1)
				logger.Error("report failed", slog.String("error", err.Error()))
				return nil
			}

			if err := r.exporter.Export(ctx, table); err != nil {
				failed.Add(1)
				logger.Error("export failed", slog.String("error", err.Error()))
				return nil
			}

			logger.Info("report finished", slog.Int("rows", table.Len()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("report: %d of %d reports failed", n, len(reports))
	}
	return nil
}
