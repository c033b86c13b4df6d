package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcentrationSoleActor(t *testing.T) {
	count, actor := Concentration(map[string]float64{
		"0xa": 70,
		"0xb": 20,
		"0xc": 10,
	}, 100)

	assert.Equal(t, 1, count)
	assert.Equal(t, "0xa", actor, "a single actor reaching 70% is reported")
}

func TestConcentrationMultipleActors(t *testing.T) {
	count, actor := Concentration(map[string]float64{
		"0xa": 40,
		"0xb": 35,
		"0xc": 25,
	}, 100)

	assert.Equal(t, 2, count, "cumulative 75% after two actors")
	assert.Empty(t, actor, "no sole actor when more than one is needed")
}

func TestConcentrationEmpty(t *testing.T) {
	count, actor := Concentration(nil, 0)
	assert.Zero(t, count)
	assert.Empty(t, actor)

	count, actor = Concentration(map[string]float64{}, 100)
	assert.Zero(t, count)
	assert.Empty(t, actor)

	count, actor = Concentration(map[string]float64{"0xa": 10}, 0)
	assert.Zero(t, count)
	assert.Empty(t, actor)
}

func TestConcentrationSingleActorAlways(t *testing.T) {
	count, actor := Concentration(map[string]float64{"0xa": 5}, 5)
	assert.Equal(t, 1, count)
	assert.Equal(t, "0xa", actor)
}

func TestConcentrationExactBoundary(t *testing.T) {
	// Exactly 70% counts as reaching the target.
	count, actor := Concentration(map[string]float64{
		"0xa": 35,
		"0xb": 35,
		"0xc": 30,
	}, 100)

	assert.Equal(t, 2, count)
	assert.Empty(t, actor)
}

func TestConcentrationDeterministicTieBreak(t *testing.T) {
	removals := map[string]float64{
		"0xb": 40,
		"0xa": 40,
		"0xc": 20,
	}

	for i := 0; i < 10; i++ {
		count, actor := Concentration(removals, 100)
		assert.Equal(t, 2, count)
		assert.Empty(t, actor)
	}
}

func TestConcentrationShortfallCountsEveryone(t *testing.T) {
	// Total larger than the sum of per-actor values: the 70% target is never
	// reached and all actors are counted.
	count, actor := Concentration(map[string]float64{
		"0xa": 10,
		"0xb": 10,
	}, 100)

	assert.Equal(t, 2, count)
	assert.Empty(t, actor)
}
