package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthroom/growthbrief/internal/backtest"
	"github.com/growthroom/growthbrief/internal/brain"
	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/internal/features"
	"github.com/growthroom/growthbrief/internal/insight"
	"github.com/growthroom/growthbrief/internal/scoring"
	"github.com/growthroom/growthbrief/internal/signals"
	"github.com/growthroom/growthbrief/internal/strategy"
	"github.com/growthroom/growthbrief/pkg/config"
	"github.com/growthroom/growthbrief/pkg/logger"
)

type stubPriceSource struct {
	series  contracts.PriceSeries
	failFor map[string]bool
}

func (s *stubPriceSource) FetchPrices(ctx context.Context, ticker string, from, to time.Time) (contracts.PriceSeries, error) {
	if s.failFor[ticker] {
		return nil, errors.New("upstream unavailable")
	}
	return s.series, nil
}

type stubFundamentalsSource struct{}

func (s *stubFundamentalsSource) FetchStatements(ctx context.Context, ticker string) (*contracts.Statements, error) {
	return nil, errors.New("no filings")
}

func (s *stubFundamentalsSource) FetchQuoteStats(ctx context.Context, ticker string) (*contracts.QuoteStats, error) {
	return nil, errors.New("no quote page")
}

type stubScoreRepo struct {
	rows       []contracts.ScoredTicker
	computedAt time.Time
	err        error
}

func (s *stubScoreRepo) SaveSnapshot(ctx context.Context, scored *contracts.ScoredTable) error {
	return nil
}

func (s *stubScoreRepo) GetLatestSnapshot(ctx context.Context) ([]contracts.ScoredTicker, time.Time, error) {
	return s.rows, s.computedAt, s.err
}

func risingSeries(n int) contracts.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(contracts.PriceSeries, n)
	price := 100.0
	for i := range series {
		series[i] = contracts.PricePoint{Date: start.AddDate(0, 0, i), Close: price}
		price *= 1.001
	}
	return series
}

func testStrategy() *strategy.Config {
	cfg := &strategy.Config{}
	cfg.Meta.StrategyID = "growthbrief_test"
	cfg.Universe.Tickers = []string{"AAPL", "MSFT"}
	cfg.Universe.Benchmark = "SPY"
	cfg.Selection.TopN = 2
	cfg.Backtest.InitialCapital = 100000
	cfg.Backtest.LookbackYears = 1
	cfg.Backtest.Costs.CommissionBps = 1
	cfg.Backtest.Costs.SlippageBps = 5
	return cfg
}

func newTestHandler(t *testing.T, prices contracts.PriceSource, repo contracts.ScoreRepository, notifier Notifier) *BriefHandler {
	t.Helper()

	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	strategyCfg := testStrategy()

	scorer, err := scoring.NewScorer(scoring.DefaultConfig(), log)
	require.NoError(t, err)

	collector := features.NewCollector(prices, &stubFundamentalsSource{}, strategyCfg.Universe.Benchmark, log)
	orchestrator := brain.NewOrchestrator(collector, scorer, insight.NewGenerator(log), repo, strategyCfg, log)

	return NewBriefHandler(
		orchestrator,
		repo,
		signals.NewEngine(log),
		backtest.NewEngine(log),
		prices,
		strategyCfg,
		notifier,
		log,
	)
}

func refresh(t *testing.T, h *BriefHandler) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestGetScoresBeforeFirstRun(t *testing.T) {
	h := newTestHandler(t, &stubPriceSource{series: risingSeries(320)}, nil, nil)

	rec := httptest.NewRecorder()
	h.GetScores(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetScoresFromSnapshotStore(t *testing.T) {
	repo := &stubScoreRepo{
		rows: []contracts.ScoredTicker{
			{Ticker: "AAPL", GRS: 72.5, Subscores: map[contracts.Category]float64{
				"TC": 85.0,
				"FM": contracts.Undefined(),
			}},
		},
		computedAt: time.Date(2026, 8, 25, 17, 30, 0, 0, time.UTC),
	}
	h := newTestHandler(t, &stubPriceSource{series: risingSeries(320)}, repo, nil)

	rec := httptest.NewRecorder()
	h.GetScores(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Scores []struct {
			Ticker    string              `json:"ticker"`
			GRS       float64             `json:"grs"`
			Subscores map[string]*float64 `json:"subscores"`
		} `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Scores, 1)
	assert.Equal(t, "AAPL", body.Scores[0].Ticker)
	assert.Equal(t, 72.5, body.Scores[0].GRS)
	require.NotNil(t, body.Scores[0].Subscores["TC"])
	assert.Equal(t, 85.0, *body.Scores[0].Subscores["TC"])
	assert.Nil(t, body.Scores[0].Subscores["FM"])
}

func TestRefreshThenGetScores(t *testing.T) {
	var notified []string
	notifier := NotifierFunc(func(eventType string, payload interface{}) {
		notified = append(notified, eventType)
	})
	h := newTestHandler(t, &stubPriceSource{series: risingSeries(320)}, nil, notifier)

	refresh(t, h)
	assert.Equal(t, []string{"scores_refreshed"}, notified)

	rec := httptest.NewRecorder()
	h.GetScores(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Scores []struct {
			Ticker string `json:"ticker"`
		} `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Scores, 2)
}

func TestGetScoreByTicker(t *testing.T) {
	h := newTestHandler(t, &stubPriceSource{series: risingSeries(320)}, nil, nil)
	refresh(t, h)

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/scores/AAPL", nil), map[string]string{"ticker": "AAPL"})
	h.GetScoreByTicker(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var row struct {
		Ticker string `json:"ticker"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, "AAPL", row.Ticker)

	rec = httptest.NewRecorder()
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/scores/GHOST", nil), map[string]string{"ticker": "GHOST"})
	h.GetScoreByTicker(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSignals(t *testing.T) {
	h := newTestHandler(t, &stubPriceSource{series: risingSeries(320)}, nil, nil)

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/signals/AAPL", nil), map[string]string{"ticker": "AAPL"})
	h.GetSignals(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Ticker  string `json:"ticker"`
		Signals []struct {
			Price   float64  `json:"price"`
			SMA50   *float64 `json:"sma_50"`
			Uptrend *bool    `json:"is_uptrend"`
		} `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body.Ticker)
	require.Len(t, body.Signals, 320)

	first, last := body.Signals[0], body.Signals[len(body.Signals)-1]
	assert.Nil(t, first.SMA50)
	assert.Nil(t, first.Uptrend)
	require.NotNil(t, last.SMA50)
	require.NotNil(t, last.Uptrend)
	assert.True(t, *last.Uptrend)
}

func TestGetSignalsUpstreamFailure(t *testing.T) {
	src := &stubPriceSource{series: risingSeries(320), failFor: map[string]bool{"AAPL": true}}
	h := newTestHandler(t, src, nil, nil)

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/signals/AAPL", nil), map[string]string{"ticker": "AAPL"})
	h.GetSignals(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRunBacktestRequiresRefresh(t *testing.T) {
	h := newTestHandler(t, &stubPriceSource{series: risingSeries(320)}, nil, nil)

	rec := httptest.NewRecorder()
	h.RunBacktest(rec, httptest.NewRequest(http.MethodPost, "/api/backtest", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRunBacktest(t *testing.T) {
	h := newTestHandler(t, &stubPriceSource{series: risingSeries(320)}, nil, nil)
	refresh(t, h)

	payload := bytes.NewBufferString(`{"top_n": 1, "lookback_years": 1, "capital": 50000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/backtest", payload)

	rec := httptest.NewRecorder()
	h.RunBacktest(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Metrics struct {
			TotalReturn *float64 `json:"total_return"`
			MaxDrawdown *float64 `json:"max_drawdown"`
		} `json:"metrics"`
		Trades int `json:"trades"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Metrics.TotalReturn)
	assert.Greater(t, *body.Metrics.TotalReturn, 0.0)
	assert.Greater(t, body.Trades, 0)
}
