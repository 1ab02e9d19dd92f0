package signals

import (
	"context"
	"math"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/pkg/logger"
)

const (
	smaShortWindow = 50
	smaMidWindow   = 100
	smaLongWindow  = 200

	// Six months approximated as 120 trading-day steps. This is the
	// contract with the scorer; do not replace with calendar arithmetic.
	momentumSteps = 120

	volatilityWindow = 20
	tradingDaysYear  = 252
)

// Engine computes rolling technical indicators from price history.
// Pure function of its input: no I/O, no shared state between calls.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new signal engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Compute derives a signal series per ticker. Each ticker is processed
// independently; one ticker's short history never affects another's.
// Input series must be date-ascending with no duplicate dates (the data
// layer dedupes before calling).
func (e *Engine) Compute(ctx context.Context, prices map[string]contracts.PriceSeries) map[string]contracts.SignalSeries {
	out := make(map[string]contracts.SignalSeries, len(prices))

	for ticker, series := range prices {
		out[ticker] = e.computeTicker(series)

		e.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"points": len(series),
		}).Debug("Computed technical signals")
	}

	return out
}

// computeTicker walks one price series once, maintaining rolling windows
func (e *Engine) computeTicker(series contracts.PriceSeries) contracts.SignalSeries {
	n := len(series)
	signals := make(contracts.SignalSeries, n)

	var sum50, sum100, sum200 float64

	// Daily pct returns; returns[i] pairs with series[i+1]
	returns := make([]float64, 0, n)

	for t := 0; t < n; t++ {
		price := series[t].Close

		sum50 += price
		sum100 += price
		sum200 += price
		if t >= smaShortWindow {
			sum50 -= series[t-smaShortWindow].Close
		}
		if t >= smaMidWindow {
			sum100 -= series[t-smaMidWindow].Close
		}
		if t >= smaLongWindow {
			sum200 -= series[t-smaLongWindow].Close
		}

		if t > 0 {
			returns = append(returns, price/series[t-1].Close-1)
		}

		point := contracts.SignalPoint{
			Date:                series[t].Date,
			Price:               price,
			SMA50:               rollingMean(sum50, t, smaShortWindow),
			SMA100:              rollingMean(sum100, t, smaMidWindow),
			SMA200:              rollingMean(sum200, t, smaLongWindow),
			SixMonthMomentumPct: momentum(series, t),
			Volatility20D:       annualizedVolatility(returns),
		}
		point.Uptrend = uptrend(price, point.SMA100)

		signals[t] = point
	}

	return signals
}

// rollingMean returns the trailing mean once the window is filled
func rollingMean(sum float64, t, window int) float64 {
	if t < window-1 {
		return contracts.Undefined()
	}
	return sum / float64(window)
}

// momentum returns (price[t] / price[t-120] - 1) * 100
func momentum(series contracts.PriceSeries, t int) float64 {
	if t < momentumSteps {
		return contracts.Undefined()
	}
	return (series[t].Close/series[t-momentumSteps].Close - 1) * 100
}

// annualizedVolatility is the sample stddev of the trailing 20 daily
// returns, scaled by sqrt(252). Undefined until 20 returns exist.
func annualizedVolatility(returns []float64) float64 {
	if len(returns) < volatilityWindow {
		return contracts.Undefined()
	}

	window := returns[len(returns)-volatilityWindow:]

	var sum float64
	for _, r := range window {
		sum += r
	}
	mean := sum / float64(volatilityWindow)

	var variance float64
	for _, r := range window {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(volatilityWindow - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysYear)
}

// uptrend compares price against the 100-day moving average
func uptrend(price, sma100 float64) contracts.Trend {
	if contracts.IsUndefined(sma100) {
		return contracts.TrendUnknown
	}
	if price > sma100 {
		return contracts.TrendUp
	}
	return contracts.TrendDown
}
