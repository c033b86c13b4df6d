package balancer

import (
	"context"
	"encoding/json"
	"fmt"

	"poolpulse/internal/domain"
)

// FetchPools queries pool metadata and current dynamic data for the given
// chains, ordered by TVL. A positive minTVL filters server-side; zero fetches
// everything.
func (c *Client) FetchPools(ctx context.Context, chains []string, minTVL float64) ([]domain.Pool, error) {
	query := `
		query Pools($chains: [GqlChain!], $minTvl: Float) {
			poolGetPools(
				where: { chainIn: $chains, minTvl: $minTvl }
				orderBy: totalLiquidity
			) {
				id
				address
				symbol
				type
				chain
				protocolVersion
				createTime
				dynamicData {
					totalLiquidity
					volume24h
					swapFee
					aprItems {
						type
						rewardTokenSymbol
						rewardTokenAddress
						apr
					}
				}
				poolTokens {
					symbol
					address
					balanceUSD
				}
			}
		}
	`

	variables := map[string]any{"chains": chains}
	if minTVL > 0 {
		variables["minTvl"] = minTVL
	}

	respData, err := c.doQuery(ctx, query, variables)
	if err != nil {
		return nil, fmt.Errorf("balancer: fetch pools: %w", err)
	}

	var result struct {
		PoolGetPools []struct {
			ID              string `json:"id"`
			Address         string `json:"address"`
			Symbol          string `json:"symbol"`
			Type            string `json:"type"`
			Chain           string `json:"chain"`
			ProtocolVersion int    `json:"protocolVersion"`
			CreateTime      int64  `json:"createTime"`
			DynamicData     struct {
				TotalLiquidity string `json:"totalLiquidity"`
				Volume24h      string `json:"volume24h"`
				SwapFee        string `json:"swapFee"`
				AprItems       []struct {
					Type               string  `json:"type"`
					RewardTokenSymbol  string  `json:"rewardTokenSymbol"`
					RewardTokenAddress string  `json:"rewardTokenAddress"`
					Apr                float64 `json:"apr"`
				} `json:"aprItems"`
			} `json:"dynamicData"`
			PoolTokens []struct {
				Symbol     string `json:"symbol"`
				Address    string `json:"address"`
				BalanceUSD string `json:"balanceUSD"`
			} `json:"poolTokens"`
		} `json:"poolGetPools"`
	}
	if err := json.Unmarshal(respData, &result); err != nil {
		return nil, fmt.Errorf("balancer: decode pools: %w", err)
	}

	pools := make([]domain.Pool, 0, len(result.PoolGetPools))
	for _, p := range result.PoolGetPools {
		pool := domain.Pool{
			ID:              p.ID,
			Address:         normalizeAddress(p.Address),
			Symbol:          p.Symbol,
			Type:            p.Type,
			Chain:           p.Chain,
			ProtocolVersion: p.ProtocolVersion,
			CreateTime:      p.CreateTime,
			TotalLiquidity:  domain.ParseDecimalOrZero(p.DynamicData.TotalLiquidity),
			Volume24h:       domain.ParseDecimalOrZero(p.DynamicData.Volume24h),
			SwapFee:         domain.ParseDecimalOrZero(p.DynamicData.SwapFee),
		}
		for _, it := range p.DynamicData.AprItems {
			pool.AprItems = append(pool.AprItems, domain.AprItem{
				Type:               it.Type,
				RewardTokenSymbol:  it.RewardTokenSymbol,
				RewardTokenAddress: normalizeAddress(it.RewardTokenAddress),
				Apr:                it.Apr,
			})
		}
		for _, t := range p.PoolTokens {
			pool.Tokens = append(pool.Tokens, domain.PoolToken{
				Symbol:     t.Symbol,
				Address:    normalizeAddress(t.Address),
				BalanceUSD: domain.ParseDecimalOrZero(t.BalanceUSD),
			})
		}
		pools = append(pools, pool)
	}

	return pools, nil
}
