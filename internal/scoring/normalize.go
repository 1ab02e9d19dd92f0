package scoring

import (
	"math"
	"sort"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// Direction says whether a larger raw value should map to a higher rank
type Direction int

const (
	HigherIsBetter Direction = 1
	LowerIsBetter  Direction = -1
)

// Normalize turns a raw feature column into 0-100 percentile rank scores:
// direction inversion, winsorization to [lowerPct, upperPct], then
// average-tie percentile ranking. Undefined inputs stay undefined and never
// participate in percentile or rank computation.
func Normalize(column []float64, dir Direction, lowerPct, upperPct float64) []float64 {
	working := make([]float64, len(column))
	copy(working, column)

	// Lower-is-better maps to higher rank by negating, so a single ranking
	// formula covers both directions
	if dir == LowerIsBetter {
		for i, v := range working {
			if contracts.IsDefined(v) {
				working[i] = -v
			}
		}
	}

	working = Winsorize(working, lowerPct, upperPct)
	return PercentileRank(working)
}

// Winsorize clips defined values to the [lowerPct, upperPct] percentiles of
// the defined values. A no-op when fewer than 2 defined values exist.
func Winsorize(column []float64, lowerPct, upperPct float64) []float64 {
	out := make([]float64, len(column))
	copy(out, column)

	defined := definedSorted(column)
	if len(defined) < 2 {
		return out
	}

	lower := interpolatedPercentile(defined, lowerPct)
	upper := interpolatedPercentile(defined, upperPct)

	for i, v := range out {
		if contracts.IsUndefined(v) {
			continue
		}
		if v < lower {
			out[i] = lower
		} else if v > upper {
			out[i] = upper
		}
	}

	return out
}

// PercentileRank ranks defined values with average tie handling (equal
// values share the mean of the ranks they would occupy, rank 1 = smallest)
// and scales to (0,100] by the count of defined values.
func PercentileRank(column []float64) []float64 {
	out := make([]float64, len(column))

	type entry struct {
		index int
		value float64
	}

	defined := make([]entry, 0, len(column))
	for i, v := range column {
		if contracts.IsDefined(v) {
			defined = append(defined, entry{index: i, value: v})
		} else {
			out[i] = contracts.Undefined()
		}
	}

	if len(defined) == 0 {
		return out
	}

	sort.SliceStable(defined, func(i, j int) bool {
		return defined[i].value < defined[j].value
	})

	count := float64(len(defined))

	// Walk runs of equal values; each run shares the mean of its ranks
	for start := 0; start < len(defined); {
		end := start
		for end+1 < len(defined) && defined[end+1].value == defined[start].value {
			end++
		}

		// Ranks are 1-based: the run occupies ranks start+1 .. end+1
		avgRank := float64(start+1+end+1) / 2

		for k := start; k <= end; k++ {
			out[defined[k].index] = avgRank / count * 100
		}

		start = end + 1
	}

	return out
}

// interpolatedPercentile computes the pct-th percentile of ascending sorted
// values with linear interpolation between closest ranks
func interpolatedPercentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}

	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// definedSorted returns the defined values in ascending order
func definedSorted(column []float64) []float64 {
	defined := make([]float64, 0, len(column))
	for _, v := range column {
		if contracts.IsDefined(v) {
			defined = append(defined, v)
		}
	}
	sort.Float64s(defined)
	return defined
}
