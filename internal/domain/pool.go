package domain

import (
	"fmt"
	"strings"
)

// APR item types as reported by the analytics API. Swap-fee APR appears in
// two flavours; exactly one of them must be counted when summing a pool's
// total APR.
const (
	AprDynamicSwapFee = "DYNAMIC_SWAP_FEE_24H"
	AprSwapFee        = "SWAP_FEE_24H"
	AprMerkl          = "MERKL"
)

// AprItem is one component of a pool's APR breakdown.
type AprItem struct {
	Type               string
	RewardTokenSymbol  string
	RewardTokenAddress string
	Apr                float64
}

// PoolToken is one constituent token of a pool.
type PoolToken struct {
	Symbol     string
	Address    string
	BalanceUSD float64
}

// Pool is liquidity-pool metadata plus its current dynamic data.
type Pool struct {
	ID              string
	Address         string
	Symbol          string
	Type            string
	Chain           string
	ProtocolVersion int
	CreateTime      int64

	TotalLiquidity float64
	Volume24h      float64
	SwapFee        float64

	AprItems []AprItem
	Tokens   []PoolToken
}

// PairName joins the pool's token symbols with " / ", e.g. "WETH / USDC".
func (p Pool) PairName() string {
	syms := make([]string, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		if t.Symbol != "" {
			syms = append(syms, t.Symbol)
		}
	}
	return strings.Join(syms, " / ")
}

// URL returns the public pool page. The frontend uses "ethereum" where the
// API says "MAINNET".
func (p Pool) URL() string {
	chain := strings.ToLower(p.Chain)
	if chain == "mainnet" {
		chain = "ethereum"
	}
	return fmt.Sprintf("https://balancer.fi/pools/%s/v%d/%s", chain, p.ProtocolVersion, p.ID)
}
