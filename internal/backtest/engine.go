// Package backtest simulates a monthly top-N rotation of the scored
// universe over historical prices and reports portfolio metrics.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/pkg/logger"
)

// Input bundles everything one simulation run needs
type Input struct {
	// Prices holds daily close history per ticker
	Prices map[string]contracts.PriceSeries

	// Ranked is the scored universe, best first, used to pick holdings
	Ranked []contracts.ScoredTicker

	TopN           int
	InitialCapital float64
	CommissionBps  float64
	SlippageBps    float64
}

// Result is the equity curve plus the summary metrics
type Result struct {
	Metrics Metrics       `json:"metrics"`
	Equity  []EquityPoint `json:"equity"`
	Trades  []Trade       `json:"trades"`
}

// EquityPoint is the portfolio value at the close of one trading day
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Trade is one completed monthly holding of a single ticker
type Trade struct {
	Ticker    string    `json:"ticker"`
	EntryDate time.Time `json:"entry_date"`
	ExitDate  time.Time `json:"exit_date"`
	Entry     float64   `json:"entry"`
	Exit      float64   `json:"exit"`
	ReturnPct float64   `json:"return_pct"`
}

// Engine runs rotation simulations
type Engine struct {
	logger *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// position is an open holding in shares
type position struct {
	shares    float64
	entry     float64
	entryDate time.Time
}

// Run simulates buying the top-N ranked tickers equal weight at the first
// trading day of each month and rotating at the next rebalance. Empty
// inputs produce undefined metrics rather than an error.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	if in.TopN <= 0 {
		return nil, fmt.Errorf("backtest: top n must be positive, got %d", in.TopN)
	}
	if in.InitialCapital <= 0 {
		return nil, fmt.Errorf("backtest: initial capital must be positive, got %v", in.InitialCapital)
	}

	calendar := tradingCalendar(in.Prices)
	if len(calendar) == 0 || len(in.Ranked) == 0 {
		return &Result{Metrics: undefinedMetrics()}, nil
	}

	targets := e.targets(in)
	costRate := (in.CommissionBps + in.SlippageBps) / 10000

	var (
		cash      = in.InitialCapital
		positions = make(map[string]position)
		equity    = make([]EquityPoint, 0, len(calendar))
		trades    []Trade
		lastClose = make(map[string]float64)
		curMonth  = ""
	)

	for _, day := range calendar {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for ticker, price := range closesOn(in.Prices, day) {
			lastClose[ticker] = price
		}

		// First trading day of a new month rebalances
		if month := day.Format("2006-01"); month != curMonth {
			curMonth = month
			cash, trades = liquidate(cash, positions, lastClose, day, costRate, trades)
			cash = open(cash, positions, targets, lastClose, day, costRate)
		}

		value := cash
		for ticker, pos := range positions {
			value += pos.shares * lastClose[ticker]
		}
		equity = append(equity, EquityPoint{Date: day, Value: value})
	}

	// Close the book so the final month counts toward the hit rate
	lastDay := calendar[len(calendar)-1]
	_, trades = liquidate(0, positions, lastClose, lastDay, 0, trades)

	result := &Result{
		Metrics: computeMetrics(equity, trades),
		Equity:  equity,
		Trades:  trades,
	}

	e.logger.WithFields(map[string]interface{}{
		"days":   len(equity),
		"trades": len(trades),
		"top_n":  in.TopN,
	}).Info("Backtest complete")

	return result, nil
}

// targets picks the top-N ranked tickers that have price history
func (e *Engine) targets(in Input) []string {
	out := make([]string, 0, in.TopN)
	for _, row := range in.Ranked {
		if len(out) == in.TopN {
			break
		}
		if contracts.IsUndefined(row.GRS) {
			continue
		}
		if _, ok := in.Prices[row.Ticker]; !ok {
			e.logger.WithField("ticker", row.Ticker).Warn("Ranked ticker has no price history, skipped")
			continue
		}
		out = append(out, row.Ticker)
	}
	return out
}

// liquidate sells every open position at the last known close, charging
// costs on the notional, and records the completed trades
func liquidate(cash float64, positions map[string]position, lastClose map[string]float64, day time.Time, costRate float64, trades []Trade) (float64, []Trade) {
	tickers := make([]string, 0, len(positions))
	for ticker := range positions {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		pos := positions[ticker]
		price, ok := lastClose[ticker]
		if !ok || price <= 0 {
			delete(positions, ticker)
			continue
		}
		proceeds := pos.shares * price * (1 - costRate)
		cash += proceeds
		trades = append(trades, Trade{
			Ticker:    ticker,
			EntryDate: pos.entryDate,
			ExitDate:  day,
			Entry:     pos.entry,
			Exit:      price,
			ReturnPct: proceeds/(pos.shares*pos.entry) - 1,
		})
		delete(positions, ticker)
	}
	return cash, trades
}

// open buys the target tickers equal weight with the available cash
func open(cash float64, positions map[string]position, targets []string, lastClose map[string]float64, day time.Time, costRate float64) float64 {
	buyable := make([]string, 0, len(targets))
	for _, ticker := range targets {
		if price, ok := lastClose[ticker]; ok && price > 0 {
			buyable = append(buyable, ticker)
		}
	}
	if len(buyable) == 0 {
		return cash
	}

	allocation := cash / float64(len(buyable))
	for _, ticker := range buyable {
		price := lastClose[ticker]
		shares := allocation * (1 - costRate) / price
		positions[ticker] = position{shares: shares, entry: price, entryDate: day}
		cash -= allocation
	}
	return cash
}

// tradingCalendar is the sorted union of all dates across the price map
func tradingCalendar(prices map[string]contracts.PriceSeries) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, series := range prices {
		for _, p := range series {
			day := p.Date.Truncate(24 * time.Hour)
			if !seen[day] {
				seen[day] = true
				days = append(days, day)
			}
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// closesOn returns each ticker's close for the given day, if it traded
func closesOn(prices map[string]contracts.PriceSeries, day time.Time) map[string]float64 {
	out := make(map[string]float64)
	for ticker, series := range prices {
		for _, p := range series {
			if p.Date.Truncate(24 * time.Hour).Equal(day) {
				out[ticker] = p.Close
				break
			}
		}
	}
	return out
}
