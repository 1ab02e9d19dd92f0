package contracts

import (
	"sort"
	"time"
)

// ScoredTable is the feature table plus one sub-score per category and the
// composite GRS per ticker. It is derived once per scoring run and not
// mutated afterward.
type ScoredTable struct {
	Features *FeatureTable

	// CategoryScores[c][i] is the 0-100 sub-score of category c for
	// ticker i, or Undefined() when no member feature was defined
	CategoryScores map[Category][]float64

	// GRS[i] is the Growth Room Score of ticker i, in [0,100] with one
	// decimal of precision
	GRS []float64

	ComputedAt time.Time
}

// ScoredTicker is a row view of a ScoredTable used by reporting consumers
type ScoredTicker struct {
	Ticker    string               `json:"ticker"`
	GRS       float64              `json:"grs"`
	Subscores map[Category]float64 `json:"subscores"`
}

// Len returns the number of scored tickers
func (s *ScoredTable) Len() int {
	return len(s.GRS)
}

// Rows returns the row views in table order
func (s *ScoredTable) Rows() []ScoredTicker {
	tickers := s.Features.Tickers()
	rows := make([]ScoredTicker, len(tickers))
	for i, ticker := range tickers {
		subs := make(map[Category]float64, len(s.CategoryScores))
		for cat, col := range s.CategoryScores {
			subs[cat] = col[i]
		}
		rows[i] = ScoredTicker{
			Ticker:    ticker,
			GRS:       s.GRS[i],
			Subscores: subs,
		}
	}
	return rows
}

// TopN returns up to n rows sorted by GRS descending. Undefined GRS values
// sort last; ties break by ticker for a stable order.
func (s *ScoredTable) TopN(n int) []ScoredTicker {
	rows := s.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		gi, gj := rows[i].GRS, rows[j].GRS
		switch {
		case IsUndefined(gi) && IsUndefined(gj):
			return rows[i].Ticker < rows[j].Ticker
		case IsUndefined(gi):
			return false
		case IsUndefined(gj):
			return true
		case gi != gj:
			return gi > gj
		default:
			return rows[i].Ticker < rows[j].Ticker
		}
	})

	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}
