package balancer

import (
	"context"
	"encoding/json"
	"fmt"

	"poolpulse/internal/domain"
)

// FetchTokens queries token metadata for one chain, including rate-provider
// and ERC-4626 review data used by the token-list report.
func (c *Client) FetchTokens(ctx context.Context, chain string) ([]domain.Token, error) {
	query := `
		query Tokens($chains: [GqlChain!]!) {
			tokenGetTokens(chains: $chains) {
				chain
				symbol
				address
				underlyingTokenAddress
				websiteUrl
				priority
				isErc4626
				priceRateProviderData {
					address
					reviewed
				}
				erc4626ReviewData {
					summary
				}
			}
		}
	`

	respData, err := c.doQuery(ctx, query, map[string]any{"chains": []string{chain}})
	if err != nil {
		return nil, fmt.Errorf("balancer: fetch tokens: %w", err)
	}

	var result struct {
		TokenGetTokens []struct {
			Chain                  string `json:"chain"`
			Symbol                 string `json:"symbol"`
			Address                string `json:"address"`
			UnderlyingTokenAddress string `json:"underlyingTokenAddress"`
			WebsiteURL             string `json:"websiteUrl"`
			Priority               int    `json:"priority"`
			IsErc4626              bool   `json:"isErc4626"`
			PriceRateProviderData  *struct {
				Address  string `json:"address"`
				Reviewed bool   `json:"reviewed"`
			} `json:"priceRateProviderData"`
			Erc4626ReviewData *struct {
				Summary string `json:"summary"`
			} `json:"erc4626ReviewData"`
		} `json:"tokenGetTokens"`
	}
	if err := json.Unmarshal(respData, &result); err != nil {
		return nil, fmt.Errorf("balancer: decode tokens: %w", err)
	}

	tokens := make([]domain.Token, 0, len(result.TokenGetTokens))
	for _, t := range result.TokenGetTokens {
		token := domain.Token{
			Chain:                  t.Chain,
			Symbol:                 t.Symbol,
			Address:                normalizeAddress(t.Address),
			UnderlyingTokenAddress: normalizeAddress(t.UnderlyingTokenAddress),
			WebsiteURL:             t.WebsiteURL,
			Priority:               t.Priority,
			IsERC4626:              t.IsErc4626,
		}
		if t.PriceRateProviderData != nil {
			token.RateProviderAddress = normalizeAddress(t.PriceRateProviderData.Address)
			token.RateProviderReviewed = t.PriceRateProviderData.Reviewed
		}
		if t.Erc4626ReviewData != nil {
			token.ERC4626ReviewSummary = t.Erc4626ReviewData.Summary
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}
