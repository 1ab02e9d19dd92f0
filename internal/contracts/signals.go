package contracts

import "time"

// Trend is the tri-state uptrend flag. A point has an unknown trend until
// enough trailing history exists for the 100-day moving average.
type Trend int

const (
	TrendUnknown Trend = iota
	TrendDown
	TrendUp
)

// Known reports whether the trend could be computed
func (t Trend) Known() bool {
	return t != TrendUnknown
}

// IsUp reports whether the trend is up; false when down or unknown
func (t Trend) IsUp() bool {
	return t == TrendUp
}

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "unknown"
	}
}

// SignalPoint holds the rolling technical indicators for one ticker on one
// date. Each indicator is Undefined() until its trailing window is filled.
type SignalPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`

	SMA50  float64 `json:"sma_50"`
	SMA100 float64 `json:"sma_100"`
	SMA200 float64 `json:"sma_200"`

	// (price[t] / price[t-120] - 1) * 100; six months approximated as 120
	// trading-day steps, never calendar months
	SixMonthMomentumPct float64 `json:"six_month_momentum_pct"`

	// stddev of daily pct returns over the trailing 20 observations,
	// annualized by sqrt(252)
	Volatility20D float64 `json:"volatility_20d"`

	// price > SMA100; unknown while SMA100 is undefined
	Uptrend Trend `json:"is_uptrend"`
}

// SignalSeries is the per-date signal output parallel to one ticker's
// price series
type SignalSeries []SignalPoint

// Last returns the most recent signal point
func (s SignalSeries) Last() (SignalPoint, bool) {
	if len(s) == 0 {
		return SignalPoint{}, false
	}
	return s[len(s)-1], true
}
