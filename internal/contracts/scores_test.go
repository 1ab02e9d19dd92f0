package contracts

import (
	"testing"
)

func buildScoredTable(t *testing.T, tickers []string, grs []float64) *ScoredTable {
	t.Helper()

	features, err := NewFeatureTable(tickers)
	if err != nil {
		t.Fatalf("NewFeatureTable failed: %v", err)
	}

	return &ScoredTable{
		Features:       features,
		CategoryScores: map[Category][]float64{},
		GRS:            grs,
	}
}

func TestTopNSortsByGRSDescending(t *testing.T) {
	scored := buildScoredTable(t,
		[]string{"AAPL", "MSFT", "GOOG", "AMZN"},
		[]float64{55.0, 80.5, 12.3, 80.5},
	)

	top := scored.TopN(3)
	if len(top) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(top))
	}

	// Tie at 80.5 breaks by ticker
	if top[0].Ticker != "AMZN" || top[1].Ticker != "MSFT" || top[2].Ticker != "AAPL" {
		t.Errorf("Unexpected order: %v %v %v", top[0].Ticker, top[1].Ticker, top[2].Ticker)
	}
}

func TestTopNUndefinedSortsLast(t *testing.T) {
	scored := buildScoredTable(t,
		[]string{"AAPL", "MSFT", "GOOG"},
		[]float64{Undefined(), 42.0, 17.0},
	)

	top := scored.TopN(3)
	if top[2].Ticker != "AAPL" {
		t.Errorf("Expected undefined GRS last, got %v", top[2].Ticker)
	}
}

func TestTopNLargerThanTable(t *testing.T) {
	scored := buildScoredTable(t, []string{"AAPL"}, []float64{50.0})

	top := scored.TopN(10)
	if len(top) != 1 {
		t.Errorf("Expected 1 row, got %d", len(top))
	}
}

func TestTrend(t *testing.T) {
	if TrendUnknown.Known() {
		t.Error("TrendUnknown should not be known")
	}
	if !TrendUp.IsUp() {
		t.Error("TrendUp should be up")
	}
	if TrendDown.IsUp() {
		t.Error("TrendDown should not be up")
	}
	if TrendUp.String() != "up" || TrendDown.String() != "down" || TrendUnknown.String() != "unknown" {
		t.Error("Unexpected Trend string values")
	}
}
