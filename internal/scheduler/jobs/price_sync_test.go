package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/pkg/config"
	"github.com/growthroom/growthbrief/pkg/logger"
)

type stubSource struct {
	failFor map[string]bool
	series  contracts.PriceSeries
}

func (s *stubSource) FetchPrices(ctx context.Context, ticker string, from, to time.Time) (contracts.PriceSeries, error) {
	if s.failFor[ticker] {
		return nil, errors.New("upstream unavailable")
	}
	return s.series, nil
}

type recordingRepo struct {
	saved   map[string]int
	saveErr error
}

func (r *recordingRepo) GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) (contracts.PriceSeries, error) {
	return nil, nil
}

func (r *recordingRepo) SaveBatch(ctx context.Context, ticker string, prices contracts.PriceSeries) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.saved == nil {
		r.saved = make(map[string]int)
	}
	r.saved[ticker] = len(prices)
	return nil
}

func testLog() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func someSeries() contracts.PriceSeries {
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	return contracts.PriceSeries{
		{Date: day, Close: 101.2},
		{Date: day.AddDate(0, 0, 1), Close: 102.8},
	}
}

func TestPriceSyncSavesEveryTicker(t *testing.T) {
	repo := &recordingRepo{}
	job := NewPriceSyncJob(&stubSource{series: someSeries()}, repo, []string{"AAPL", "MSFT", "SPY"}, "@daily", testLog())

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, map[string]int{"AAPL": 2, "MSFT": 2, "SPY": 2}, repo.saved)
}

func TestPriceSyncToleratesPartialFailure(t *testing.T) {
	repo := &recordingRepo{}
	source := &stubSource{series: someSeries(), failFor: map[string]bool{"MSFT": true}}
	job := NewPriceSyncJob(source, repo, []string{"AAPL", "MSFT"}, "@daily", testLog())

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, map[string]int{"AAPL": 2}, repo.saved)
}

func TestPriceSyncFailsWhenNothingSyncs(t *testing.T) {
	source := &stubSource{failFor: map[string]bool{"AAPL": true, "MSFT": true}}
	job := NewPriceSyncJob(source, &recordingRepo{}, []string{"AAPL", "MSFT"}, "@daily", testLog())

	assert.Error(t, job.Run(context.Background()))
}

func TestPriceSyncCountsSaveErrors(t *testing.T) {
	repo := &recordingRepo{saveErr: errors.New("connection refused")}
	job := NewPriceSyncJob(&stubSource{series: someSeries()}, repo, []string{"AAPL"}, "@daily", testLog())

	assert.Error(t, job.Run(context.Background()))
}

func TestPriceSyncStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := &recordingRepo{}
	job := NewPriceSyncJob(&stubSource{series: someSeries()}, repo, []string{"AAPL"}, "@daily", testLog())

	err := job.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, repo.saved)
}
