// Package analytics implements the pure computations over fetched pool data:
// windowed event aggregation, withdrawal-concentration analysis, snapshot
// lookups, and APR breakdowns. Nothing here performs I/O or mutates its
// inputs.
package analytics

import "poolpulse/internal/domain"

// Aggregate buckets liquidity events into the given named windows in a single
// pass. For every window whose inclusive bounds contain an event's normalized
// timestamp, ADD value is added to TotalAdds and REMOVE value to TotalRemoves
// and, when the actor address is non-empty, to RemovalsByActor. Events of any
// other type are skipped.
//
// Each window is an independent accumulation over the same stream, so the
// cost is O(events x windows) with no per-window re-scan.
func Aggregate(events []domain.PoolEvent, windows map[string]domain.TimeWindow) map[string]*domain.WindowResult {
	results := make(map[string]*domain.WindowResult, len(windows))
	for name := range windows {
		results[name] = &domain.WindowResult{
			RemovalsByActor: make(map[string]float64),
		}
	}

	for _, ev := range events {
		if ev.Type != domain.EventAdd && ev.Type != domain.EventRemove {
			continue
		}
		ts := domain.NormalizeTimestamp(ev.Timestamp)

		for name, w := range windows {
			if !w.Contains(ts) {
				continue
			}
			res := results[name]
			switch ev.Type {
			case domain.EventAdd:
				res.TotalAdds += ev.ValueUSD
			case domain.EventRemove:
				res.TotalRemoves += ev.ValueUSD
				if ev.UserAddress != "" {
					res.RemovalsByActor[ev.UserAddress] += ev.ValueUSD
				}
			}
		}
	}

	return results
}
