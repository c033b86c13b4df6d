package domain

// Token is chain token metadata from the analytics API, used by the
// token-list report.
type Token struct {
	Chain                  string
	Symbol                 string
	Address                string
	UnderlyingTokenAddress string
	WebsiteURL             string
	Priority               int

	RateProviderAddress  string
	RateProviderReviewed bool

	IsERC4626            bool
	ERC4626ReviewSummary string
}
