package signals

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/pkg/config"
	"github.com/growthroom/growthbrief/pkg/logger"
)

func testEngine() *Engine {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	return NewEngine(log)
}

// ascendingSeries builds n business-day points with closes start, start+1, ...
func ascendingSeries(n int, start float64) contracts.PriceSeries {
	series := make(contracts.PriceSeries, n)
	date := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		series[i] = contracts.PricePoint{Date: date, Close: start + float64(i)}
		date = date.AddDate(0, 0, 1)
	}
	return series
}

func TestSMA50EdgeCase(t *testing.T) {
	series := ascendingSeries(250, 100)
	out := testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{"AAPL": series})

	signals := out["AAPL"]
	require.Len(t, signals, 250)

	// Undefined for the first 49 rows
	for i := 0; i < 49; i++ {
		assert.True(t, contracts.IsUndefined(signals[i].SMA50), "index %d", i)
	}
	assert.True(t, contracts.IsDefined(signals[49].SMA50))

	// Last value equals the mean of the last 50 closes
	var sum float64
	for i := 200; i < 250; i++ {
		sum += series[i].Close
	}
	assert.InDelta(t, sum/50, signals[249].SMA50, 1e-9)
}

func TestSMAWindows(t *testing.T) {
	series := ascendingSeries(250, 100)
	out := testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{"AAPL": series})
	last := out["AAPL"][249]

	mean := func(from, to int) float64 {
		var sum float64
		for i := from; i < to; i++ {
			sum += series[i].Close
		}
		return sum / float64(to-from)
	}

	assert.InDelta(t, mean(150, 250), last.SMA100, 1e-9)
	assert.InDelta(t, mean(50, 250), last.SMA200, 1e-9)
	assert.True(t, contracts.IsUndefined(out["AAPL"][98].SMA100))
	assert.True(t, contracts.IsUndefined(out["AAPL"][198].SMA200))
}

func TestSixMonthMomentum(t *testing.T) {
	series := ascendingSeries(250, 100)
	out := testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{"AAPL": series})
	signals := out["AAPL"]

	// Undefined until 121 observations exist
	assert.True(t, contracts.IsUndefined(signals[119].SixMonthMomentumPct))
	assert.True(t, contracts.IsDefined(signals[120].SixMonthMomentumPct))

	// (price[t] / price[t-120] - 1) * 100 at the last index
	want := (series[249].Close/series[129].Close - 1) * 100
	assert.InDelta(t, want, signals[249].SixMonthMomentumPct, 1e-9)
}

func TestVolatility20D(t *testing.T) {
	series := ascendingSeries(250, 100)
	out := testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{"AAPL": series})
	signals := out["AAPL"]

	// Needs 21 observations (20 returns)
	assert.True(t, contracts.IsUndefined(signals[19].Volatility20D))
	assert.True(t, contracts.IsDefined(signals[20].Volatility20D))

	// Recompute with sample stddev over the trailing 20 returns
	returns := make([]float64, 0, 20)
	for i := 230; i < 250; i++ {
		returns = append(returns, series[i].Close/series[i-1].Close-1)
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / 20
	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= 19
	want := math.Sqrt(variance) * math.Sqrt(252)

	assert.InDelta(t, want, signals[249].Volatility20D, 1e-9)
}

func TestUptrendEdgeCase(t *testing.T) {
	series := ascendingSeries(250, 100)
	out := testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{"AAPL": series})
	signals := out["AAPL"]

	for i := 0; i < 250; i++ {
		if contracts.IsUndefined(signals[i].SMA100) {
			assert.Equal(t, contracts.TrendUnknown, signals[i].Uptrend, "index %d", i)
			continue
		}

		want := contracts.TrendDown
		if signals[i].Price > signals[i].SMA100 {
			want = contracts.TrendUp
		}
		assert.Equal(t, want, signals[i].Uptrend, "index %d", i)
	}

	// Ascending series: price is always above its trailing mean once defined
	assert.Equal(t, contracts.TrendUp, signals[249].Uptrend)
}

func TestDowntrend(t *testing.T) {
	// Descending series: price below its trailing mean
	series := make(contracts.PriceSeries, 120)
	date := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range series {
		series[i] = contracts.PricePoint{Date: date, Close: 500 - float64(i)}
		date = date.AddDate(0, 0, 1)
	}

	out := testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{"TSLA": series})
	assert.Equal(t, contracts.TrendDown, out["TSLA"][119].Uptrend)
}

func TestTickersAreIndependent(t *testing.T) {
	long := ascendingSeries(250, 100)
	short := ascendingSeries(10, 200)

	out := testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{
		"LONG":  long,
		"SHORT": short,
	})

	require.Len(t, out["LONG"], 250)
	require.Len(t, out["SHORT"], 10)

	// Short history is all-undefined but must not corrupt the long ticker
	for _, p := range out["SHORT"] {
		assert.True(t, contracts.IsUndefined(p.SMA50))
		assert.Equal(t, contracts.TrendUnknown, p.Uptrend)
	}
	assert.True(t, contracts.IsDefined(out["LONG"][249].SMA200))
}

func TestComputeIsDeterministic(t *testing.T) {
	series := ascendingSeries(250, 100)
	engine := testEngine()
	input := map[string]contracts.PriceSeries{"AAPL": series}

	first := engine.Compute(context.Background(), input)
	second := engine.Compute(context.Background(), input)

	for i := range first["AAPL"] {
		a, b := first["AAPL"][i], second["AAPL"][i]
		assert.True(t, a.SMA50 == b.SMA50 || (contracts.IsUndefined(a.SMA50) && contracts.IsUndefined(b.SMA50)))
		assert.True(t, a.Volatility20D == b.Volatility20D || (contracts.IsUndefined(a.Volatility20D) && contracts.IsUndefined(b.Volatility20D)))
		assert.Equal(t, a.Uptrend, b.Uptrend)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	out := testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{})
	assert.Empty(t, out)

	out = testEngine().Compute(context.Background(), map[string]contracts.PriceSeries{"AAPL": nil})
	assert.Empty(t, out["AAPL"])
}
