package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"poolpulse/internal/domain"
)

func TestSwapAPRPrefersDynamic(t *testing.T) {
	items := []domain.AprItem{
		{Type: domain.AprSwapFee, Apr: 0.01},
		{Type: domain.AprDynamicSwapFee, Apr: 0.02},
	}

	assert.Equal(t, 0.02, SwapAPR(items))
}

func TestSwapAPRFallsBackToStatic(t *testing.T) {
	items := []domain.AprItem{
		{Type: domain.AprSwapFee, Apr: 0.01},
		{Type: "STAKING", Apr: 0.05},
	}

	assert.Equal(t, 0.01, SwapAPR(items))
	assert.Equal(t, 0.0, SwapAPR(nil))
}

func TestTotalAPRCountsSwapOnce(t *testing.T) {
	items := []domain.AprItem{
		{Type: domain.AprDynamicSwapFee, Apr: 0.02},
		{Type: domain.AprSwapFee, Apr: 0.01},
		{Type: "STAKING", Apr: 0.05},
		{Type: domain.AprMerkl, Apr: 0.03},
	}

	assert.InDelta(t, 0.10, TotalAPR(items), 1e-12)
}

func TestMerklAPRSumsComponents(t *testing.T) {
	items := []domain.AprItem{
		{Type: domain.AprMerkl, Apr: 0.03},
		{Type: domain.AprMerkl, Apr: 0.02},
		{Type: "STAKING", Apr: 0.05},
	}

	assert.InDelta(t, 0.05, MerklAPR(items), 1e-12)
	assert.Equal(t, 0.0, MerklAPR(nil))
}

func TestYieldByRewardToken(t *testing.T) {
	items := []domain.AprItem{
		{Type: "STAKING", RewardTokenAddress: "0xAbC", Apr: 0.04},
		{Type: "STAKING", RewardTokenAddress: "0xabc", Apr: 0.01},
		{Type: "STAKING", RewardTokenAddress: "0xdef", Apr: 0},
		{Type: "STAKING", RewardTokenAddress: "", Apr: 0.09},
	}

	yields := YieldByRewardToken(items)
	assert.Equal(t, map[string]float64{"0xabc": 0.05}, yields,
		"addresses fold to lower case, zero and addressless items dropped")
}
