package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthroom/growthbrief/internal/contracts"
)

func TestPercentileRankAverageTies(t *testing.T) {
	column := []float64{10, 20, 10, 30}
	ranked := PercentileRank(column)

	// Ranks [1.5, 3, 1.5, 4] scaled by 4 values
	assert.Equal(t, []float64{37.5, 75.0, 37.5, 100.0}, ranked)
}

func TestPercentileRankSkipsUndefined(t *testing.T) {
	column := []float64{10, 20, contracts.Undefined(), 10, 30}
	ranked := PercentileRank(column)

	require.Len(t, ranked, 5)
	assert.True(t, contracts.IsUndefined(ranked[2]))

	// Defined values rank among themselves only
	assert.Equal(t, 37.5, ranked[0])
	assert.Equal(t, 75.0, ranked[1])
	assert.Equal(t, 37.5, ranked[3])
	assert.Equal(t, 100.0, ranked[4])
}

func TestPercentileRankAllEqual(t *testing.T) {
	ranked := PercentileRank([]float64{5, 5, 5, 5})

	// Shared average rank (1+2+3+4)/4 = 2.5 of 4 -> 62.5
	for _, r := range ranked {
		assert.Equal(t, 62.5, r)
	}
}

func TestPercentileRankAllUndefined(t *testing.T) {
	ranked := PercentileRank([]float64{contracts.Undefined(), contracts.Undefined()})
	for _, r := range ranked {
		assert.True(t, contracts.IsUndefined(r))
	}
}

func TestWinsorizeBounds(t *testing.T) {
	column := make([]float64, 100)
	for i := range column {
		column[i] = float64(i + 1)
	}

	clipped := Winsorize(column, 5, 95)

	lo, hi := clipped[0], clipped[0]
	for _, v := range clipped {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	// Linear percentile interpolation over 1..100
	assert.InDelta(t, 5.95, lo, 1e-9)
	assert.InDelta(t, 95.05, hi, 1e-9)

	// Interior values untouched
	assert.Equal(t, 51.0, clipped[50])
}

func TestWinsorizePreservesUndefined(t *testing.T) {
	column := []float64{1, 2, 100, contracts.Undefined(), 500}
	clipped := Winsorize(column, 25, 75)

	assert.InDelta(t, 1.75, clipped[0], 1e-9)
	assert.Equal(t, 2.0, clipped[1])
	assert.Equal(t, 100.0, clipped[2])
	assert.True(t, contracts.IsUndefined(clipped[3]))
	assert.InDelta(t, 200.0, clipped[4], 1e-9)
}

func TestWinsorizeFewDefinedIsNoop(t *testing.T) {
	column := []float64{42, contracts.Undefined()}
	clipped := Winsorize(column, 1, 99)

	assert.Equal(t, 42.0, clipped[0])
	assert.True(t, contracts.IsUndefined(clipped[1]))

	empty := Winsorize(nil, 1, 99)
	assert.Empty(t, empty)
}

func TestNormalizeLowerIsBetter(t *testing.T) {
	// Low PE should earn the highest rank
	column := []float64{30, 25, 20, 15, 10}
	ranked := Normalize(column, LowerIsBetter, 1, 99)

	assert.InDeltaSlice(t, []float64{20.0, 40.0, 60.0, 80.0, 100.0}, ranked, 1e-9)
}

func TestNormalizeHigherIsBetter(t *testing.T) {
	column := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	ranked := Normalize(column, HigherIsBetter, 1, 99)

	assert.InDeltaSlice(t, []float64{20.0, 40.0, 60.0, 80.0, 100.0}, ranked, 1e-9)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	column := []float64{30, 25, 20}
	Normalize(column, LowerIsBetter, 1, 99)

	assert.Equal(t, []float64{30, 25, 20}, column)
}

func TestNormalizeDeterministic(t *testing.T) {
	column := []float64{3, 1, contracts.Undefined(), 3, 2}

	first := Normalize(column, HigherIsBetter, 1, 99)
	second := Normalize(column, HigherIsBetter, 1, 99)

	require.Len(t, second, len(first))
	for i := range first {
		if contracts.IsUndefined(first[i]) {
			assert.True(t, contracts.IsUndefined(second[i]))
			continue
		}
		assert.Equal(t, first[i], second[i])
	}
}

func TestInterpolatedPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, interpolatedPercentile(sorted, 0))
	assert.Equal(t, 4.0, interpolatedPercentile(sorted, 100))
	assert.InDelta(t, 2.5, interpolatedPercentile(sorted, 50), 1e-9)
	assert.Equal(t, 7.0, interpolatedPercentile([]float64{7}, 50))
}
