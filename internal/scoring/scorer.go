package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/pkg/logger"
)

// Scorer computes the Growth Room Score: each feature column is
// rank-normalized with its registered direction, features average into five
// category sub-scores, and the weighted sum of the defined sub-scores is the
// composite. Pure over its input; rescoring the same table is idempotent.
type Scorer struct {
	cfg    Config
	logger *logger.Logger
}

// NewScorer creates a scorer after validating the configuration
func NewScorer(cfg Config, log *logger.Logger) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}

	return &Scorer{cfg: cfg, logger: log}, nil
}

// Score derives the scored table from a feature snapshot. A zero-row table
// produces a zero-row result, not an error.
func (s *Scorer) Score(ctx context.Context, features *contracts.FeatureTable) (*contracts.ScoredTable, error) {
	if features == nil {
		return nil, fmt.Errorf("nil feature table")
	}

	n := features.Len()

	scored := &contracts.ScoredTable{
		Features:       features,
		CategoryScores: make(map[contracts.Category][]float64, len(s.cfg.Categories)),
		GRS:            make([]float64, n),
		ComputedAt:     time.Now(),
	}

	if n == 0 {
		s.logger.Debug("Scoring empty feature table")
		return scored, nil
	}

	for _, cat := range s.cfg.Categories {
		scored.CategoryScores[cat.Category] = s.categoryScore(features, cat)
	}

	for i := 0; i < n; i++ {
		// Weighted sum over the categories with a defined sub-score.
		// Undefined categories contribute nothing; the weights are NOT
		// renormalized, so partial data caps the attainable score.
		var grs float64
		for _, cat := range s.cfg.Categories {
			sub := scored.CategoryScores[cat.Category][i]
			if contracts.IsDefined(sub) {
				grs += cat.Weight * sub
			}
		}

		grs = math.Round(grs*10) / 10
		if grs < 0 {
			grs = 0
		} else if grs > 100 {
			grs = 100
		}

		scored.GRS[i] = grs
	}

	s.logger.WithFields(map[string]interface{}{
		"tickers":    n,
		"categories": len(s.cfg.Categories),
	}).Info("Scoring completed")

	return scored, nil
}

// categoryScore rank-normalizes each member feature and averages the
// defined ranks per ticker. A ticker with every member feature undefined
// gets an undefined sub-score, not zero.
func (s *Scorer) categoryScore(features *contracts.FeatureTable, cat CategorySpec) []float64 {
	n := features.Len()

	sums := make([]float64, n)
	counts := make([]int, n)

	for _, spec := range cat.Features {
		column := features.Column(spec.Name)
		ranked := Normalize(column, spec.Direction, s.cfg.WinsorizeLowerPct, s.cfg.WinsorizeUpperPct)

		for i, r := range ranked {
			if contracts.IsDefined(r) {
				sums[i] += r
				counts[i]++
			}
		}
	}

	out := make([]float64, n)
	for i := range out {
		if counts[i] == 0 {
			out[i] = contracts.Undefined()
			continue
		}
		out[i] = sums[i] / float64(counts[i])
	}

	return out
}
