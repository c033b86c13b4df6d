package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolpulse/internal/domain"
)

func TestAggregateNetFlow(t *testing.T) {
	windows := map[string]domain.TimeWindow{
		"w": {Start: 100, End: 200},
	}
	events := []domain.PoolEvent{
		{Timestamp: 110, Type: domain.EventAdd, ValueUSD: 500, UserAddress: "0xaa"},
		{Timestamp: 120, Type: domain.EventRemove, ValueUSD: 300, UserAddress: "0xbb"},
		{Timestamp: 130, Type: domain.EventRemove, ValueUSD: 50, UserAddress: "0xbb"},
	}

	results := Aggregate(events, windows)
	res := results["w"]
	require.NotNil(t, res)

	assert.Equal(t, 500.0, res.TotalAdds)
	assert.Equal(t, 350.0, res.TotalRemoves)
	assert.Equal(t, 150.0, res.NetFlow())
	assert.Equal(t, map[string]float64{"0xbb": 350}, res.RemovalsByActor)
}

func TestAggregateInclusiveBounds(t *testing.T) {
	windows := map[string]domain.TimeWindow{
		"w": {Start: 100, End: 200},
	}
	events := []domain.PoolEvent{
		{Timestamp: 100, Type: domain.EventAdd, ValueUSD: 1},
		{Timestamp: 200, Type: domain.EventAdd, ValueUSD: 2},
		{Timestamp: 99, Type: domain.EventAdd, ValueUSD: 4},
		{Timestamp: 201, Type: domain.EventAdd, ValueUSD: 8},
	}

	res := Aggregate(events, windows)["w"]
	assert.Equal(t, 3.0, res.TotalAdds, "events on both boundaries included, outside excluded")
}

func TestAggregateMillisecondNormalization(t *testing.T) {
	windows := map[string]domain.TimeWindow{
		"w": {Start: 1_700_000_000, End: 1_700_000_000},
	}
	events := []domain.PoolEvent{
		{Timestamp: 1_700_000_000, Type: domain.EventAdd, ValueUSD: 1},
		{Timestamp: 1_700_000_000_000, Type: domain.EventAdd, ValueUSD: 1},
	}

	res := Aggregate(events, windows)["w"]
	assert.Equal(t, 2.0, res.TotalAdds, "13-digit timestamp must be treated as milliseconds")
}

func TestAggregateSkipsOtherEventTypes(t *testing.T) {
	windows := map[string]domain.TimeWindow{
		"w": {Start: 0, End: 1000},
	}
	events := []domain.PoolEvent{
		{Timestamp: 10, Type: domain.EventSwap, ValueUSD: 999},
		{Timestamp: 20, Type: domain.EventType("SOMETHING_ELSE"), ValueUSD: 999},
		{Timestamp: 30, Type: domain.EventAdd, ValueUSD: 5},
	}

	res := Aggregate(events, windows)["w"]
	assert.Equal(t, 5.0, res.TotalAdds)
	assert.Equal(t, 0.0, res.TotalRemoves)
}

func TestAggregateEmptyActorCountsTowardTotalsOnly(t *testing.T) {
	windows := map[string]domain.TimeWindow{
		"w": {Start: 0, End: 1000},
	}
	events := []domain.PoolEvent{
		{Timestamp: 10, Type: domain.EventRemove, ValueUSD: 40, UserAddress: ""},
		{Timestamp: 20, Type: domain.EventRemove, ValueUSD: 60, UserAddress: "0xaa"},
	}

	res := Aggregate(events, windows)["w"]
	assert.Equal(t, 100.0, res.TotalRemoves)
	assert.Equal(t, map[string]float64{"0xaa": 60}, res.RemovalsByActor)
}

func TestAggregateOverlappingWindows(t *testing.T) {
	windows := map[string]domain.TimeWindow{
		"a": {Start: 0, End: 150},
		"b": {Start: 100, End: 300},
	}
	events := []domain.PoolEvent{
		{Timestamp: 120, Type: domain.EventAdd, ValueUSD: 10},
	}

	results := Aggregate(events, windows)
	assert.Equal(t, 10.0, results["a"].TotalAdds, "event belongs to every matching window")
	assert.Equal(t, 10.0, results["b"].TotalAdds)
}

func TestAggregateIdempotentAndNonMutating(t *testing.T) {
	windows := map[string]domain.TimeWindow{
		"w": {Start: 0, End: 1000},
	}
	events := []domain.PoolEvent{
		{Timestamp: 10, Type: domain.EventAdd, ValueUSD: 5, UserAddress: "0xaa"},
		{Timestamp: 20, Type: domain.EventRemove, ValueUSD: 3, UserAddress: "0xbb"},
	}
	original := make([]domain.PoolEvent, len(events))
	copy(original, events)

	first := Aggregate(events, windows)
	second := Aggregate(events, windows)

	assert.Equal(t, original, events, "input must not be mutated")
	assert.Equal(t, first["w"].TotalAdds, second["w"].TotalAdds)
	assert.Equal(t, first["w"].TotalRemoves, second["w"].TotalRemoves)
	assert.Equal(t, first["w"].RemovalsByActor, second["w"].RemovalsByActor)
}

func TestAggregateEmptyEvents(t *testing.T) {
	windows := map[string]domain.TimeWindow{
		"w": {Start: 0, End: 10},
	}

	results := Aggregate(nil, windows)
	res := results["w"]
	require.NotNil(t, res, "every window key must be present even with no events")
	assert.Zero(t, res.TotalAdds)
	assert.Zero(t, res.TotalRemoves)
	assert.Empty(t, res.RemovalsByActor)
}
