package analytics

import (
	"strings"

	"poolpulse/internal/domain"
)

// SwapAPR picks the single swap-fee component from a pool's APR breakdown,
// preferring the dynamic 24h figure when both flavours are present. Counting
// both would double the swap contribution.
func SwapAPR(items []domain.AprItem) float64 {
	for _, typ := range []string{domain.AprDynamicSwapFee, domain.AprSwapFee} {
		for _, it := range items {
			if it.Type == typ {
				return it.Apr
			}
		}
	}
	return 0
}

// NonSwapAPR sums every APR component that is not a swap-fee flavour.
func NonSwapAPR(items []domain.AprItem) float64 {
	var sum float64
	for _, it := range items {
		if it.Type == domain.AprDynamicSwapFee || it.Type == domain.AprSwapFee {
			continue
		}
		sum += it.Apr
	}
	return sum
}

// TotalAPR is the pool's combined APR: one swap component plus all non-swap
// components.
func TotalAPR(items []domain.AprItem) float64 {
	return SwapAPR(items) + NonSwapAPR(items)
}

// MerklAPR sums all MERKL-type incentive components.
func MerklAPR(items []domain.AprItem) float64 {
	var sum float64
	for _, it := range items {
		if it.Type == domain.AprMerkl {
			sum += it.Apr
		}
	}
	return sum
}

// YieldByRewardToken indexes APR components by reward token address
// (lowercased), summing duplicates. Components without a reward address or
// with zero APR are dropped.
func YieldByRewardToken(items []domain.AprItem) map[string]float64 {
	yields := make(map[string]float64)
	for _, it := range items {
		if it.RewardTokenAddress == "" || it.Apr == 0 {
			continue
		}
		yields[strings.ToLower(it.RewardTokenAddress)] += it.Apr
	}
	return yields
}
