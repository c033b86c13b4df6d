// Package app provides the top-level application lifecycle for poolpulse. It
// wires together the API client, cache, and exporters, builds the requested
// reports, and runs them.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"poolpulse/internal/config"
	"poolpulse/internal/report"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, builds the
// configured reports, and executes them. On return the caller should invoke
// Close to release resources.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting run",
		slog.Any("reports", a.reportNames()),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	reports, err := buildReports(a.cfg, deps.API, a.logger)
	if err != nil {
		return err
	}

	runner := report.NewRunner(deps.Exporter, a.cfg.Concurrency, a.logger)
	return runner.Run(ctx, reports)
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) reportNames() []string {
	if len(a.cfg.Reports) > 0 {
		return a.cfg.Reports
	}
	return config.ReportNames
}

// buildReports instantiates the configured reports against the wired API.
func buildReports(cfg *config.Config, api report.API, logger *slog.Logger) ([]report.Report, error) {
	names := cfg.Reports
	if len(names) == 0 {
		names = config.ReportNames
	}

	start, end, err := cfg.Deltas.IncidentWindow()
	if err != nil {
		return nil, err
	}
	windows := report.NewDeltaWindows(start, end, time.Now().UTC())

	reports := make([]report.Report, 0, len(names))
	for _, name := range names {
		switch name {
		case "tvl_deltas":
			reports = append(reports, report.NewTVLDeltas(api, report.TVLDeltasConfig{
				Chains:         cfg.Deltas.Chains,
				Windows:        windows,
				MinBoundaryTVL: cfg.Deltas.MinBoundaryTVL,
				InterPoolDelay: cfg.Deltas.InterPoolDelay.Duration,
			}, logger))
		case "pool_composition":
			reports = append(reports, report.NewComposition(api, cfg.Composition.Chain, logger))
		case "token_yields":
			reports = append(reports, report.NewTokenYields(api, cfg.Yields.Chain, logger))
		case "merkl_incentives":
			reports = append(reports, report.NewMerklIncentives(api, cfg.Merkl.Chain, logger))
		case "monthly":
			reports = append(reports, report.NewMonthly(api, cfg.Monthly.MinTVL, logger))
		case "token_list":
			reports = append(reports, report.NewTokenList(api, cfg.TokenList.Chain, logger))
		default:
			return nil, fmt.Errorf("app: unknown report %q", name)
		}
	}
	return reports, nil
}
