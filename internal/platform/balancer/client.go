// Package balancer is a GraphQL client for the Balancer v3 analytics API,
// used to query pool metadata, liquidity events, balance snapshots, and token
// lists. All requests go through a client-owned token-bucket limiter and a
// bounded retry loop, so callers never have to pace themselves.
package balancer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/time/rate"

	"poolpulse/internal/domain"
)

// DefaultURL is the public Balancer v3 analytics endpoint.
const DefaultURL = "https://api-v3.balancer.fi"

const (
	defaultRateLimit  = 30
	defaultRateWindow = 10 * time.Second
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	defaultTimeout    = 30 * time.Second

	// maxJitter is added to backoff sleeps so retries from parallel runs do
	// not synchronise against the API.
	maxJitter = 500 * time.Millisecond
)

// ClientConfig holds the connection and pacing parameters for the API client.
// Zero values fall back to the documented API limits (30 requests per 10s).
type ClientConfig struct {
	GraphQLURL string
	APIKey     string

	// RateLimit requests per RateWindow, enforced client-side.
	RateLimit  int
	RateWindow time.Duration

	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// RetryDelay is the base backoff delay, doubled per attempt.
	RetryDelay time.Duration

	Timeout time.Duration
}

// Client executes GraphQL queries against the analytics API.
type Client struct {
	graphqlURL string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a new API client. The limiter is constructed here, one
// per client, so a run never shares throttle state with anything else in the
// process.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.GraphQLURL == "" {
		cfg.GraphQLURL = DefaultURL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = defaultRateWindow
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	limit := rate.Limit(float64(cfg.RateLimit) / cfg.RateWindow.Seconds())

	return &Client{
		graphqlURL: cfg.GraphQLURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, cfg.RateLimit),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     logger.With(slog.String("component", "balancer")),
	}
}

// graphqlRequest is the standard GraphQL request envelope.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the standard GraphQL response envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// statusError is a non-200 HTTP response from the API.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.status, e.body)
}

// doQuery executes a GraphQL query with rate limiting and bounded retries,
// returning the raw "data" field. 429 responses honour a parseable
// Retry-After header; everything else retryable backs off exponentially with
// jitter. GraphQL-level errors and client-side HTTP errors are not retried.
func (c *Client) doQuery(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("balancer: rate limiter: %w", err)
		}

		data, retryAfter, err := c.post(ctx, query, variables)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == c.maxRetries {
			break
		}

		wait := retryAfter
		if wait <= 0 {
			wait = c.retryDelay<<attempt + rand.N(maxJitter)
		}
		c.logger.Warn("api request failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_retries", c.maxRetries),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// post performs one request. On 429 it returns domain.ErrRateLimited together
// with the server-suggested wait, when present.
func (c *Client) post(ctx context.Context, query string, variables map[string]any) (json.RawMessage, time.Duration, error) {
	jsonBody, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, 0, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), fmt.Errorf("balancer: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, &statusError{status: resp.StatusCode, body: string(body)}
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, 0, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrGraphQL, gqlResp.Errors[0].Message)
	}

	return gqlResp.Data, 0, nil
}

// isRetryable reports whether a request failure is worth another attempt:
// rate limiting, server-side errors, and transport failures.
func isRetryable(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= 500
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

// parseRetryAfter interprets the Retry-After header as whole seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// sleepCtx sleeps for d, honouring context cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// normalizeAddress lowercases valid hex addresses so per-actor grouping and
// reward-token lookups are case-insensitive. Anything that is not a hex
// address passes through unchanged; the core treats addresses as opaque.
func normalizeAddress(addr string) string {
	if addr == "" || !common.IsHexAddress(addr) {
		return addr
	}
	return strings.ToLower(addr)
}
