package balancer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"poolpulse/internal/domain"
)

const (
	// eventPageSize is the API's maximum page size for poolEvents.
	eventPageSize = 1000

	// maxEventFetch bounds worst-case pagination cost per pool (200 pages).
	maxEventFetch = 200_000
)

// eventKey identifies an event for cross-page deduplication. The API exposes
// no event ID, and skip-based pagination can repeat rows when new events land
// mid-scan.
type eventKey struct {
	ts   int64
	typ  domain.EventType
	user string
	usd  float64
}

// FetchPoolEvents pages through a pool's liquidity events and returns those
// whose normalized timestamp is at or after since. The API returns newer
// events first, so pagination stops early once an entire page precedes the
// cutoff; it also stops on a short page or at the safety limit.
//
// On a mid-pagination failure the events collected so far are returned
// together with the error, so callers can decide to use the partial result.
func (c *Client) FetchPoolEvents(ctx context.Context, poolID, chain string, since int64) ([]domain.PoolEvent, error) {
	query := `
		query PoolEvents($poolId: String!, $chains: [GqlChain!]!, $first: Int!, $skip: Int!) {
			poolEvents(
				where: { poolId: $poolId, chainIn: $chains }
				first: $first
				skip: $skip
			) {
				poolId
				timestamp
				valueUSD
				type
				userAddress
			}
		}
	`

	var all []domain.PoolEvent
	seen := make(map[eventKey]struct{})
	skip := 0

	for {
		variables := map[string]any{
			"poolId": poolID,
			"chains": []string{chain},
			"first":  eventPageSize,
			"skip":   skip,
		}

		respData, err := c.doQuery(ctx, query, variables)
		if err != nil {
			return all, fmt.Errorf("balancer: fetch events for pool %s at skip %d: %w", poolID, skip, err)
		}

		var result struct {
			PoolEvents []struct {
				PoolID      string  `json:"poolId"`
				Timestamp   int64   `json:"timestamp"`
				ValueUSD    float64 `json:"valueUSD"`
				Type        string  `json:"type"`
				UserAddress string  `json:"userAddress"`
			} `json:"poolEvents"`
		}
		if err := json.Unmarshal(respData, &result); err != nil {
			return all, fmt.Errorf("balancer: decode events for pool %s: %w", poolID, err)
		}

		if len(result.PoolEvents) == 0 {
			break
		}

		allOlder := true
		for _, e := range result.PoolEvents {
			if domain.NormalizeTimestamp(e.Timestamp) < since {
				continue
			}
			allOlder = false

			ev := domain.PoolEvent{
				PoolID:      e.PoolID,
				Timestamp:   e.Timestamp,
				Type:        domain.EventType(e.Type),
				ValueUSD:    e.ValueUSD,
				UserAddress: normalizeAddress(e.UserAddress),
			}
			key := eventKey{ts: ev.Timestamp, typ: ev.Type, user: ev.UserAddress, usd: ev.ValueUSD}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			all = append(all, ev)
		}

		// An entire page older than the cutoff means everything after it is
		// older too.
		if allOlder {
			break
		}
		if len(result.PoolEvents) < eventPageSize {
			break
		}

		skip += eventPageSize
		if skip > maxEventFetch {
			c.logger.Warn("event pagination safety limit reached",
				slog.String("pool_id", poolID),
				slog.Int("fetched", skip),
			)
			break
		}
	}

	return all, nil
}
