package domain

// Snapshot history ranges understood by the analytics API.
const (
	RangeThirtyDays = "THIRTY_DAYS"
	RangeNinetyDays = "NINETY_DAYS"
)

// PoolSnapshot is one periodic observation of a pool's balance history.
type PoolSnapshot struct {
	// Timestamp is epoch seconds at which the snapshot was taken.
	Timestamp int64

	// TotalLiquidity is the pool TVL in USD. Null or malformed API values
	// are defaulted to 0 at ingestion.
	TotalLiquidity float64

	// TotalSwapVolume and TotalSwapFee are the per-snapshot swap volume and
	// collected fees in USD, used by the monthly report.
	TotalSwapVolume float64
	TotalSwapFee    float64
}
