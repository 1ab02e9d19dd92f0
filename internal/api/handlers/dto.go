package handlers

import (
	"time"

	"github.com/growthroom/growthbrief/internal/backtest"
	"github.com/growthroom/growthbrief/internal/contracts"
)

// JSON has no NaN, so undefined values cross the wire as null.

type scoredRow struct {
	Ticker    string                          `json:"ticker"`
	GRS       float64                         `json:"grs"`
	Subscores map[contracts.Category]*float64 `json:"subscores"`
}

type signalRow struct {
	Date                time.Time `json:"date"`
	Price               float64   `json:"price"`
	SMA50               *float64  `json:"sma_50"`
	SMA100              *float64  `json:"sma_100"`
	SMA200              *float64  `json:"sma_200"`
	SixMonthMomentumPct *float64  `json:"six_month_momentum_pct"`
	Volatility20D       *float64  `json:"volatility_20d"`
	Uptrend             *bool     `json:"is_uptrend"`
}

type metricsBody struct {
	TotalReturn   *float64 `json:"total_return"`
	CAGR          *float64 `json:"cagr"`
	AnnualizedVol *float64 `json:"stdev"`
	SharpeRatio   *float64 `json:"sharpe_ratio"`
	SortinoRatio  *float64 `json:"sortino_ratio"`
	MaxDrawdown   *float64 `json:"max_drawdown"`
	HitRate       *float64 `json:"hit_rate"`
}

func nullable(v float64) *float64 {
	if contracts.IsUndefined(v) {
		return nil
	}
	return &v
}

func scoreRow(row contracts.ScoredTicker) scoredRow {
	subs := make(map[contracts.Category]*float64, len(row.Subscores))
	for cat, v := range row.Subscores {
		subs[cat] = nullable(v)
	}
	return scoredRow{
		Ticker:    row.Ticker,
		GRS:       row.GRS,
		Subscores: subs,
	}
}

func scoreRows(rows []contracts.ScoredTicker) []scoredRow {
	out := make([]scoredRow, len(rows))
	for i, row := range rows {
		out[i] = scoreRow(row)
	}
	return out
}

func signalPointRow(p contracts.SignalPoint) signalRow {
	row := signalRow{
		Date:                p.Date,
		Price:               p.Price,
		SMA50:               nullable(p.SMA50),
		SMA100:              nullable(p.SMA100),
		SMA200:              nullable(p.SMA200),
		SixMonthMomentumPct: nullable(p.SixMonthMomentumPct),
		Volatility20D:       nullable(p.Volatility20D),
	}
	if p.Uptrend.Known() {
		up := p.Uptrend.IsUp()
		row.Uptrend = &up
	}
	return row
}

func metricsRow(m backtest.Metrics) metricsBody {
	return metricsBody{
		TotalReturn:   nullable(m.TotalReturn),
		CAGR:          nullable(m.CAGR),
		AnnualizedVol: nullable(m.AnnualizedVol),
		SharpeRatio:   nullable(m.SharpeRatio),
		SortinoRatio:  nullable(m.SortinoRatio),
		MaxDrawdown:   nullable(m.MaxDrawdown),
		HitRate:       nullable(m.HitRate),
	}
}
