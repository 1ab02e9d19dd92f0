package backtest

import (
	"math"

	"github.com/growthroom/growthbrief/internal/contracts"
)

const tradingDaysPerYear = 252

// Metrics summarizes a simulation. Every field is undefined when the run
// had no usable data.
type Metrics struct {
	TotalReturn   float64 `json:"total_return"`
	CAGR          float64 `json:"cagr"`
	AnnualizedVol float64 `json:"stdev"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	SortinoRatio  float64 `json:"sortino_ratio"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	HitRate       float64 `json:"hit_rate"`
}

func undefinedMetrics() Metrics {
	u := contracts.Undefined()
	return Metrics{
		TotalReturn:   u,
		CAGR:          u,
		AnnualizedVol: u,
		SharpeRatio:   u,
		SortinoRatio:  u,
		MaxDrawdown:   u,
		HitRate:       u,
	}
}

func computeMetrics(equity []EquityPoint, trades []Trade) Metrics {
	if len(equity) < 2 {
		return undefinedMetrics()
	}

	m := undefinedMetrics()

	first, last := equity[0], equity[len(equity)-1]
	if first.Value > 0 {
		m.TotalReturn = last.Value/first.Value - 1

		// Calendar-day annualization
		days := last.Date.Sub(first.Date).Hours() / 24
		if days > 0 {
			m.CAGR = math.Pow(last.Value/first.Value, 365/days) - 1
		}
	}

	returns := dailyReturns(equity)
	if len(returns) > 1 {
		mean, std := meanStd(returns)
		m.AnnualizedVol = std * math.Sqrt(tradingDaysPerYear)
		if std > 0 {
			m.SharpeRatio = mean / std * math.Sqrt(tradingDaysPerYear)
		}
		if down := downsideStd(returns); down > 0 {
			m.SortinoRatio = mean / down * math.Sqrt(tradingDaysPerYear)
		}
	}

	m.MaxDrawdown = equityDrawdown(equity)

	if len(trades) > 0 {
		wins := 0
		for _, tr := range trades {
			if tr.ReturnPct > 0 {
				wins++
			}
		}
		m.HitRate = float64(wins) / float64(len(trades))
	}

	return m
}

func dailyReturns(equity []EquityPoint) []float64 {
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1].Value > 0 {
			out = append(out, equity[i].Value/equity[i-1].Value-1)
		}
	}
	return out
}

// meanStd returns the mean and sample standard deviation
func meanStd(values []float64) (float64, float64) {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values) - 1)

	return mean, math.Sqrt(variance)
}

// downsideStd is the root mean square of negative returns
func downsideStd(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		if v < 0 {
			sum += v * v
		}
	}
	return math.Sqrt(sum / float64(len(values)))
}

// equityDrawdown is the most negative peak-to-trough decline of the curve
func equityDrawdown(equity []EquityPoint) float64 {
	worst := 0.0
	peak := equity[0].Value
	for _, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			dd := p.Value/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
