package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolpulse/internal/domain"
	"poolpulse/internal/export"
)

type fakeAPI struct {
	pools     []domain.Pool
	events    map[string][]domain.PoolEvent
	snapshots map[string][]domain.PoolSnapshot
	tokens    []domain.Token

	poolsErr error
	snapsErr error

	eventCalls []string
}

func (f *fakeAPI) FetchPools(ctx context.Context, chains []string, minTVL float64) ([]domain.Pool, error) {
	return f.pools, f.poolsErr
}

func (f *fakeAPI) FetchPoolEvents(ctx context.Context, poolID, chain string, since int64) ([]domain.PoolEvent, error) {
	f.eventCalls = append(f.eventCalls, poolID)
	return f.events[poolID], nil
}

func (f *fakeAPI) FetchSnapshots(ctx context.Context, poolID, chain, dataRange string) ([]domain.PoolSnapshot, error) {
	return f.snapshots[poolID], f.snapsErr
}

func (f *fakeAPI) FetchTokens(ctx context.Context, chain string) ([]domain.Token, error) {
	return f.tokens, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTVLDeltasSkipsPoolsBelowBoundaryTVL(t *testing.T) {
	windows := NewDeltaWindows(date(2025, 11, 2), date(2025, 11, 5), date(2025, 11, 20))

	api := &fakeAPI{
		pools: []domain.Pool{
			{ID: "0xbig", Symbol: "BIG", Chain: "MAINNET", Type: "WEIGHTED", ProtocolVersion: 3},
			{ID: "0xsmall", Symbol: "SMALL", Chain: "MAINNET", Type: "WEIGHTED", ProtocolVersion: 3},
		},
		snapshots: map[string][]domain.PoolSnapshot{
			"0xbig":   {{Timestamp: windows.IncidentStart, TotalLiquidity: 500000}},
			"0xsmall": {{Timestamp: windows.IncidentStart, TotalLiquidity: 1000}},
		},
		events: map[string][]domain.PoolEvent{
			"0xbig": {
				{Timestamp: windows.IncidentStart + 100, Type: domain.EventAdd, ValueUSD: 1000},
				{Timestamp: windows.IncidentStart + 200, Type: domain.EventRemove, ValueUSD: 400, UserAddress: "0xaa"},
			},
		},
	}

	r := NewTVLDeltas(api, TVLDeltasConfig{
		Chains:         []string{"MAINNET"},
		Windows:        windows,
		MinBoundaryTVL: 300000,
	}, discardLogger())

	table, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	row := table.Rows[0]
	assert.Equal(t, "BIG", row[0])
	assert.Equal(t, "500000.00", row[1], "tvl at incident start")
	assert.Equal(t, "600.00", row[2], "net flow over the incident window")
	assert.Equal(t, "1", row[3], "one address covers the removals")
	assert.Equal(t, "0xaa", row[4])

	// The small pool's event history is never fetched.
	assert.Equal(t, []string{"0xbig"}, api.eventCalls)
}

func TestTVLDeltasPropagatesPoolFetchError(t *testing.T) {
	api := &fakeAPI{poolsErr: errors.New("boom")}
	r := NewTVLDeltas(api, TVLDeltasConfig{}, discardLogger())

	_, err := r.Run(context.Background())
	require.Error(t, err)
}

func TestCompositionSortsByTVLAndSplitsBalances(t *testing.T) {
	api := &fakeAPI{
		pools: []domain.Pool{
			{
				ID: "0xsmall", Symbol: "S", Chain: "PLASMA", ProtocolVersion: 3,
				TotalLiquidity: 1000,
				Tokens: []domain.PoolToken{
					{Symbol: "A", BalanceUSD: 600},
					{Symbol: "B", BalanceUSD: 400},
				},
			},
			{
				ID: "0xbig", Symbol: "BG", Chain: "PLASMA", ProtocolVersion: 3,
				TotalLiquidity: 2000,
				AprItems: []domain.AprItem{
					{Type: domain.AprDynamicSwapFee, Apr: 0.02},
					{Type: domain.AprSwapFee, Apr: 0.05},
					{Type: domain.AprMerkl, Apr: 0.01},
				},
				Tokens: []domain.PoolToken{
					{Symbol: "C", BalanceUSD: 1000},
					{Symbol: "D", BalanceUSD: 1000},
				},
			},
			{ID: "0xone", Symbol: "ONE", Tokens: []domain.PoolToken{{Symbol: "X"}}},
		},
	}

	r := NewComposition(api, "PLASMA", discardLogger())
	table, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len(), "single-token pool is dropped")

	first := table.Rows[0]
	assert.Equal(t, "C / D", first[0])
	assert.Equal(t, "0.500", first[3])
	assert.Equal(t, "0.500", first[4])
	assert.Equal(t, "0.030", first[6], "dynamic swap fee plus merkl, static not double counted")

	second := table.Rows[1]
	assert.Equal(t, "A / B", second[0])
	assert.Equal(t, "0.600", second[3])
}

func TestTokenYieldsMatchesRewardAddresses(t *testing.T) {
	api := &fakeAPI{
		pools: []domain.Pool{
			{
				ID: "0xp", Symbol: "P", Chain: "PLASMA", ProtocolVersion: 3,
				AprItems: []domain.AprItem{
					{Type: domain.AprMerkl, RewardTokenAddress: "0xAAA", Apr: 0.05},
					{Type: domain.AprMerkl, RewardTokenAddress: "0xBBB", Apr: 0.02},
				},
				Tokens: []domain.PoolToken{
					{Symbol: "AAA", Address: "0xaaa"},
					{Symbol: "BBB", Address: "0xbbb"},
					{Symbol: "CCC", Address: "0xccc"},
				},
			},
		},
	}

	r := NewTokenYields(api, "PLASMA", discardLogger())
	table, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len(), "token without a matching reward is dropped")

	assert.Equal(t, "AAA", table.Rows[0][0], "sorted by yield descending")
	assert.Equal(t, "0.050", table.Rows[0][1])
	assert.Equal(t, "BBB", table.Rows[1][0])
}

func TestMerklIncentivesKeepsPositiveAPROnly(t *testing.T) {
	api := &fakeAPI{
		pools: []domain.Pool{
			{
				ID: "0xa", Chain: "PLASMA", ProtocolVersion: 3, TotalLiquidity: 100,
				Tokens:   []domain.PoolToken{{Symbol: "A"}, {Symbol: "B"}},
				AprItems: []domain.AprItem{{Type: domain.AprMerkl, Apr: 0.03}},
			},
			{
				ID: "0xb", Chain: "PLASMA", ProtocolVersion: 3, TotalLiquidity: 200,
				Tokens:   []domain.PoolToken{{Symbol: "C"}, {Symbol: "D"}},
				AprItems: []domain.AprItem{{Type: domain.AprMerkl, Apr: 0.08}},
			},
			{
				ID: "0xc", Chain: "PLASMA",
				AprItems: []domain.AprItem{{Type: domain.AprSwapFee, Apr: 0.5}},
			},
		},
	}

	r := NewMerklIncentives(api, "PLASMA", discardLogger())
	table, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, "C / D", table.Rows[0][0], "sorted by merkl apr descending")
	assert.Equal(t, "0.080", table.Rows[0][1])
	assert.Equal(t, "A / B", table.Rows[1][0])
}

func TestMonthlyComputesTrailingStats(t *testing.T) {
	snaps := make([]domain.PoolSnapshot, 30)
	for i := range snaps {
		snaps[i] = domain.PoolSnapshot{
			Timestamp:       int64(i),
			TotalLiquidity:  100 + float64(i),
			TotalSwapVolume: 10,
			TotalSwapFee:    1,
		}
	}

	api := &fakeAPI{
		pools: []domain.Pool{
			{
				ID: "0xfull", Chain: "MAINNET", Type: "STABLE", ProtocolVersion: 3,
				TotalLiquidity: 260,
				CreateTime:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC).Unix(),
				Tokens:         []domain.PoolToken{{Symbol: "A"}, {Symbol: "B"}},
			},
			{
				ID: "0xyoung", Chain: "MAINNET", Type: "STABLE", ProtocolVersion: 3,
				TotalLiquidity: 50,
				Tokens:         []domain.PoolToken{{Symbol: "C"}},
			},
		},
		snapshots: map[string][]domain.PoolSnapshot{
			"0xfull":  snaps,
			"0xyoung": snaps[:5],
		},
	}

	r := NewMonthly(api, 10000, discardLogger())
	table, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	full := table.Rows[0]
	assert.Equal(t, "A / B", full[0])
	assert.Equal(t, "2025-01-15", full[2])
	assert.Equal(t, "111.38", full[4], "7d change vs snapshot 7 back")
	assert.Equal(t, "160.00", full[5], "30d change vs oldest snapshot")
	assert.Equal(t, "70.00", full[6])
	assert.Equal(t, "300.00", full[7])
	assert.Equal(t, "7.00", full[8])
	assert.Equal(t, "30.00", full[9])

	young := table.Rows[1]
	assert.Equal(t, "0.00", young[4], "insufficient history leaves zeros")
	assert.Equal(t, "0.00", young[5])
	assert.Equal(t, "", young[2], "no creation date without createTime")
}

func TestTokenListResolvesUnderlyingTokens(t *testing.T) {
	api := &fakeAPI{
		tokens: []domain.Token{
			{Chain: "MAINNET", Symbol: "WETH", Address: "0xweth", IsERC4626: false},
			{
				Chain: "MAINNET", Symbol: "waWETH", Address: "0xwaweth",
				UnderlyingTokenAddress: "0xweth", IsERC4626: true,
				RateProviderAddress: "0xrate", RateProviderReviewed: true,
				ERC4626ReviewSummary: "safe",
			},
		},
	}

	r := NewTokenList(api, "MAINNET", discardLogger())
	table, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	wrapped := table.Rows[1]
	assert.Equal(t, "waWETH", wrapped[1])
	assert.Equal(t, "true", wrapped[5])
	assert.Equal(t, "safe", wrapped[6])
	assert.Equal(t, "0xrate", wrapped[7])
	assert.Equal(t, "true", wrapped[8])
	assert.Equal(t, "WETH", wrapped[9], "underlying symbol resolved from the same response")
	assert.Equal(t, "false", wrapped[10])

	base := table.Rows[0]
	assert.Equal(t, "", base[9], "no underlying for a base token")
}

type stubReport struct {
	name string
	err  error
}

func (s *stubReport) Name() string { return s.name }

func (s *stubReport) Run(ctx context.Context) (*export.Table, error) {
	if s.err != nil {
		return nil, s.err
	}
	return export.NewTable(s.name, "col"), nil
}

type recordingExporter struct {
	names []string
}

func (r *recordingExporter) Export(ctx context.Context, table *export.Table) error {
	r.names = append(r.names, table.Name)
	return nil
}

func TestRunnerContinuesPastFailingReport(t *testing.T) {
	exporter := &recordingExporter{}
	runner := NewRunner(exporter, 1, discardLogger())

	err := runner.Run(context.Background(), []Report{
		&stubReport{name: "broken", err: errors.New("boom")},
		&stubReport{name: "fine"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Equal(t, []string{"fine"}, exporter.names)
}

func TestRunnerAllSucceed(t *testing.T) {
	exporter := &recordingExporter{}
	runner := NewRunner(exporter, 2, discardLogger())

	err := runner.Run(context.Background(), []Report{
		&stubReport{name: "a"},
		&stubReport{name: "b"},
	})

	require.NoError(t, err)
	assert.Len(t, exporter.names, 2)
}
