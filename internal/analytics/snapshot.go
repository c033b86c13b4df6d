package analytics

import "poolpulse/internal/domain"

// NearestTVL returns the TVL of the snapshot whose timestamp is closest to
// the target. The first minimizer wins on ties. An empty series yields 0.
func NearestTVL(snapshots []domain.PoolSnapshot, target int64) float64 {
	if len(snapshots) == 0 {
		return 0
	}

	best := snapshots[0]
	bestDist := absInt64(snapshots[0].Timestamp - target)
	for _, s := range snapshots[1:] {
		if d := absInt64(s.Timestamp - target); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best.TotalLiquidity
}

// TrailingStats sums swap volume and fees over the last n snapshots and
// returns the TVL recorded n snapshots ago. When fewer than n snapshots
// exist it returns ok=false and zero values.
func TrailingStats(snapshots []domain.PoolSnapshot, n int) (pastTVL, volume, fees float64, ok bool) {
	if n <= 0 || len(snapshots) < n {
		return 0, 0, 0, false
	}
	tail := snapshots[len(snapshots)-n:]
	for _, s := range tail {
		volume += s.TotalSwapVolume
		fees += s.TotalSwapFee
	}
	return tail[0].TotalLiquidity, volume, fees, true
}

// ChangeRatio returns (current-past)/past, or 0 when past is zero.
func ChangeRatio(current, past float64) float64 {
	if past == 0 {
		return 0
	}
	return (current - past) / past
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
