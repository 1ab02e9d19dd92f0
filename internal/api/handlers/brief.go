// Package handlers implements the HTTP handlers for the brief API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/growthroom/growthbrief/internal/backtest"
	"github.com/growthroom/growthbrief/internal/brain"
	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/internal/signals"
	"github.com/growthroom/growthbrief/internal/strategy"
	"github.com/growthroom/growthbrief/pkg/logger"
)

// Notifier pushes refresh events to subscribers
type Notifier interface {
	Notify(eventType string, payload interface{})
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(eventType string, payload interface{})

func (f NotifierFunc) Notify(eventType string, payload interface{}) { f(eventType, payload) }

// BriefHandler serves scores, signals, insights and backtests
type BriefHandler struct {
	orchestrator *brain.Orchestrator
	scoreRepo    contracts.ScoreRepository
	signalEngine *signals.Engine
	backtester   *backtest.Engine
	prices       contracts.PriceSource
	strategy     *strategy.Config
	notifier     Notifier
	logger       *logger.Logger
}

func NewBriefHandler(
	orchestrator *brain.Orchestrator,
	scoreRepo contracts.ScoreRepository,
	signalEngine *signals.Engine,
	backtester *backtest.Engine,
	prices contracts.PriceSource,
	strategyCfg *strategy.Config,
	notifier Notifier,
	log *logger.Logger,
) *BriefHandler {
	return &BriefHandler{
		orchestrator: orchestrator,
		scoreRepo:    scoreRepo,
		signalEngine: signalEngine,
		backtester:   backtester,
		prices:       prices,
		strategy:     strategyCfg,
		notifier:     notifier,
		logger:       log,
	}
}

// GetScores returns the latest scored universe, from memory when a run
// has happened, otherwise from the snapshot store
// GET /api/scores
func (h *BriefHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	if latest := h.orchestrator.Latest(); latest != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"computed_at": latest.Scored.ComputedAt,
			"scores":      scoreRows(latest.Scored.TopN(latest.Scored.Len())),
		})
		return
	}

	if h.scoreRepo == nil {
		respondError(w, http.StatusNotFound, "No scores available yet")
		return
	}

	rows, computedAt, err := h.scoreRepo.GetLatestSnapshot(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load score snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scores")
		return
	}
	if len(rows) == 0 {
		respondError(w, http.StatusNotFound, "No scores available yet")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"computed_at": computedAt,
		"scores":      scoreRows(rows),
	})
}

// GetScoreByTicker returns one ticker's score row
// GET /api/scores/{ticker}
func (h *BriefHandler) GetScoreByTicker(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	latest := h.orchestrator.Latest()
	if latest == nil {
		respondError(w, http.StatusNotFound, "No scores available yet")
		return
	}

	for _, row := range latest.Scored.TopN(latest.Scored.Len()) {
		if row.Ticker == ticker {
			respondJSON(w, http.StatusOK, scoreRow(row))
			return
		}
	}
	respondError(w, http.StatusNotFound, "Ticker not scored")
}

// GetSignals computes trend signals for one ticker from fresh prices
// GET /api/signals/{ticker}
func (h *BriefHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	now := time.Now()
	series, err := h.prices.FetchPrices(ctx, ticker, now.AddDate(0, -15, 0), now)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to fetch prices")
		respondError(w, http.StatusBadGateway, "Failed to fetch price history")
		return
	}
	if len(series) == 0 {
		respondError(w, http.StatusNotFound, "No price history for ticker")
		return
	}

	computed := h.signalEngine.Compute(ctx, map[string]contracts.PriceSeries{ticker: series})

	points := computed[ticker]
	out := make([]signalRow, len(points))
	for i, p := range points {
		out[i] = signalPointRow(p)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  ticker,
		"signals": out,
	})
}

// GetInsights returns the evidence and risk summaries of the latest run
// GET /api/insights
func (h *BriefHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	latest := h.orchestrator.Latest()
	if latest == nil {
		respondError(w, http.StatusNotFound, "No insights available yet")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"computed_at": latest.Scored.ComputedAt,
		"insights":    latest.Insights,
	})
}

// Refresh runs the scoring pipeline synchronously
// POST /api/refresh
func (h *BriefHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.orchestrator.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Pipeline run failed")
		respondError(w, http.StatusInternalServerError, "Refresh failed")
		return
	}

	if h.notifier != nil {
		h.notifier.Notify("scores_refreshed", map[string]interface{}{
			"computed_at": result.Scored.ComputedAt,
			"tickers":     result.Scored.Len(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"computed_at": result.Scored.ComputedAt,
		"tickers":     result.Scored.Len(),
		"duration_ms": result.Duration.Milliseconds(),
	})
}

// BacktestRequest overrides the strategy backtest defaults
type BacktestRequest struct {
	TopN          int     `json:"top_n"`
	LookbackYears int     `json:"lookback_years"`
	Capital       float64 `json:"capital"`
}

// RunBacktest rotates the latest top-N over historical prices
// POST /api/backtest
func (h *BriefHandler) RunBacktest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	latest := h.orchestrator.Latest()
	if latest == nil {
		respondError(w, http.StatusConflict, "Run a refresh before backtesting")
		return
	}

	req := BacktestRequest{
		TopN:          h.strategy.Selection.TopN,
		LookbackYears: h.strategy.Backtest.LookbackYears,
		Capital:       h.strategy.Backtest.InitialCapital,
	}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	now := time.Now()
	from := now.AddDate(-req.LookbackYears, 0, 0)

	prices := make(map[string]contracts.PriceSeries)
	for _, ticker := range h.strategy.Universe.Tickers {
		series, err := h.prices.FetchPrices(ctx, ticker, from, now)
		if err != nil {
			h.logger.WithError(err).WithField("ticker", ticker).Warn("Backtest price fetch failed")
			continue
		}
		prices[ticker] = series
	}

	result, err := h.backtester.Run(ctx, backtest.Input{
		Prices:         prices,
		Ranked:         latest.Scored.TopN(latest.Scored.Len()),
		TopN:           req.TopN,
		InitialCapital: req.Capital,
		CommissionBps:  h.strategy.Backtest.Costs.CommissionBps,
		SlippageBps:    h.strategy.Backtest.Costs.SlippageBps,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": metricsRow(result.Metrics),
		"trades":  len(result.Trades),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
