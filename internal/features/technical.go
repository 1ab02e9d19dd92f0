package features

import (
	"github.com/growthroom/growthbrief/internal/contracts"
)

// Approximate trading days per month, used for month-denominated lookbacks
const tradingDaysPerMonth = 21

// TechnicalFeatures are the trend-confirmation columns. The above_* values
// are binary indicators stored as 0 or 1.
type TechnicalFeatures struct {
	Above50DMA    float64
	Above100DMA   float64
	Above200DMA   float64
	SixMMomentum  float64
	MaxDrawdown1Y float64
}

// BuildTechnical derives technical features from a ticker's daily closes.
// fullHistory should cover roughly fifteen months; yearHistory is the
// trailing one-year slice used for the drawdown.
func BuildTechnical(fullHistory, yearHistory contracts.PriceSeries) TechnicalFeatures {
	out := TechnicalFeatures{
		Above50DMA:    contracts.Undefined(),
		Above100DMA:   contracts.Undefined(),
		Above200DMA:   contracts.Undefined(),
		SixMMomentum:  contracts.Undefined(),
		MaxDrawdown1Y: contracts.Undefined(),
	}

	closes := fullHistory.Closes()
	if len(closes) > 0 {
		price := closes[len(closes)-1]
		out.Above50DMA = aboveSMA(price, closes, 50)
		out.Above100DMA = aboveSMA(price, closes, 100)
		out.Above200DMA = aboveSMA(price, closes, 200)
		out.SixMMomentum = trailingMomentum(closes, 6)
	}

	out.MaxDrawdown1Y = maxDrawdown(yearHistory.Closes())
	return out
}

// aboveSMA returns 1 when price exceeds the trailing simple moving
// average, 0 when it does not, Undefined when the window is not covered
func aboveSMA(price float64, closes []float64, window int) float64 {
	sma := trailingSMA(closes, window)
	if contracts.IsUndefined(sma) {
		return contracts.Undefined()
	}
	if price > sma {
		return 1
	}
	return 0
}

// trailingSMA is the mean of the last window closes
func trailingSMA(closes []float64, window int) float64 {
	if len(closes) < window {
		return contracts.Undefined()
	}
	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return sum / float64(window)
}

// trailingMomentum is the fractional return over months of roughly 21
// trading days each
func trailingMomentum(closes []float64, months int) float64 {
	lookback := months * tradingDaysPerMonth
	if len(closes) < lookback {
		return contracts.Undefined()
	}
	start := closes[len(closes)-lookback]
	end := closes[len(closes)-1]
	if start == 0 {
		return contracts.Undefined()
	}
	return (end - start) / start
}

// maxDrawdown is the most negative peak-to-trough decline over the series
func maxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return contracts.Undefined()
	}

	worst := 0.0
	runningMax := closes[0]
	for _, c := range closes {
		if c > runningMax {
			runningMax = c
		}
		if runningMax != 0 {
			dd := (c - runningMax) / runningMax
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
