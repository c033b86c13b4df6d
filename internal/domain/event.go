// Package domain defines the core data types for pool analytics: liquidity
// events, balance snapshots, time windows, and pool/token metadata. All types
// are plain in-memory records constructed at the ingestion boundary; nothing
// in this package performs I/O.
package domain

// EventType classifies a liquidity-pool event as reported by the API.
type EventType string

const (
	EventAdd    EventType = "ADD"
	EventRemove EventType = "REMOVE"
	EventSwap   EventType = "SWAP"
)

// PoolEvent is a single liquidity action against a pool. Events are immutable
// once fetched; aggregation never mutates them.
type PoolEvent struct {
	PoolID string

	// Timestamp is raw epoch time as returned by the API. The unit is
	// ambiguous (seconds or milliseconds); use NormalizeTimestamp before
	// comparing against window bounds.
	Timestamp int64

	Type EventType

	// ValueUSD is the USD value of the action. Missing or malformed API
	// values are defaulted to 0 at ingestion.
	ValueUSD float64

	// UserAddress is the acting address, lowercased hex. May be empty, in
	// which case the event counts toward totals but not per-actor grouping.
	UserAddress string
}

// millisecondCutoff separates second-precision from millisecond-precision
// epoch timestamps. Anything above 10^12 is treated as milliseconds.
const millisecondCutoff = 1_000_000_000_000

// NormalizeTimestamp converts a raw event timestamp to integer epoch seconds.
func NormalizeTimestamp(ts int64) int64 {
	if ts > millisecondCutoff {
		return ts / 1000
	}
	return ts
}
