package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"poolpulse/internal/export"
)

// TokenList reports the token metadata of one chain, with rate-provider and
// ERC-4626 review status and underlying-token columns resolved within the
// same response.
type TokenList struct {
	api    API
	chain  string
	logger *slog.Logger
}

// NewTokenList creates the token-list report for one chain.
func NewTokenList(api API, chain string, logger *slog.Logger) *TokenList {
	return &TokenList{
		api:    api,
		chain:  chain,
		logger: logger.With(slog.String("report", "token_list")),
	}
}

// Name implements Report.
func (r *TokenList) Name() string { return "token_list" }

// Run emits one row per token. The underlying columns look the underlying
// token address up against the fetched set itself; an unknown underlying
// leaves them empty and false.
func (r *TokenList) Run(ctx context.Context) (*export.Table, error) {
	tokens, err := r.api.FetchTokens(ctx, r.chain)
	if err != nil {
		return nil, fmt.Errorf("report: token-list: %w", err)
	}

	symbolByAddress := make(map[string]string, len(tokens))
	is4626ByAddress := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		symbolByAddress[t.Address] = t.Symbol
		is4626ByAddress[t.Address] = t.IsERC4626
	}

	table := export.NewTable("token_list",
		"chain", "symbol", "address", "underlying_token_address", "priority",
		"is_erc4626", "erc4626_review_summary",
		"rate_provider_address", "rate_provider_reviewed",
		"underlying_symbol", "underlying_is_erc4626",
	)

	for _, t := range tokens {
		table.Append(
			t.Chain,
			t.Symbol,
			t.Address,
			t.UnderlyingTokenAddress,
			export.Int(t.Priority),
			strconv.FormatBool(t.IsERC4626),
			t.ERC4626ReviewSummary,
			t.RateProviderAddress,
			strconv.FormatBool(t.RateProviderReviewed),
			symbolByAddress[t.UnderlyingTokenAddress],
			strconv.FormatBool(is4626ByAddress[t.UnderlyingTokenAddress]),
		)
	}

	r.logger.Info("token list built", slog.Int("tokens", table.Len()))
	return table, nil
}
