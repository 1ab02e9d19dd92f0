// Package insight turns scored feature rows into short human-readable
// evidence and risk summaries for the daily brief.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/pkg/logger"
)

const (
	defaultMaxEvidence = 3
	defaultMaxRisks    = 2

	genericEvidence = "General positive trend"
	genericRisk     = "General market risk"
)

// Generator derives insights for the top-ranked tickers of a scored table
type Generator struct {
	logger      *logger.Logger
	minGRS      float64
	maxEvidence int
	maxRisks    int
}

func NewGenerator(log *logger.Logger) *Generator {
	return &Generator{
		logger:      log,
		maxEvidence: defaultMaxEvidence,
		maxRisks:    defaultMaxRisks,
	}
}

// WithLimits sets how many evidence and risk items each insight carries
func (g *Generator) WithLimits(maxEvidence, maxRisks int) *Generator {
	if maxEvidence > 0 {
		g.maxEvidence = maxEvidence
	}
	if maxRisks > 0 {
		g.maxRisks = maxRisks
	}
	return g
}

// WithMinGRS drops tickers scoring below the threshold from the brief
func (g *Generator) WithMinGRS(minGRS float64) *Generator {
	g.minGRS = minGRS
	return g
}

// Generate produces insights for the top n tickers by GRS, skipping any
// below the minimum score. Each insight carries a fixed number of
// evidence and risk items, padded with generic entries when the feature
// data does not support specific ones.
func (g *Generator) Generate(ctx context.Context, scored *contracts.ScoredTable, n int) ([]contracts.Insight, error) {
	if scored == nil {
		return nil, fmt.Errorf("insight: scored table is nil")
	}

	top := scored.TopN(n)
	insights := make([]contracts.Insight, 0, len(top))

	for _, row := range top {
		if row.GRS < g.minGRS || contracts.IsUndefined(row.GRS) {
			continue
		}
		insights = append(insights, contracts.Insight{
			Ticker:   row.Ticker,
			GRS:      row.GRS,
			Evidence: g.evidence(scored.Features, row.Ticker),
			Risks:    g.risks(scored.Features, row.Ticker),
		})
	}

	g.logger.WithFields(map[string]interface{}{
		"requested": n,
		"generated": len(insights),
	}).Info("Generated insights")

	return insights, nil
}

// evidence collects positive observations up to the configured limit.
// Undefined feature values fail every comparison and so never produce
// an item.
func (g *Generator) evidence(table *contracts.FeatureTable, ticker string) string {
	var items []string

	if v := table.Value(ticker, contracts.FeatureRevYoY); v > 0.10 {
		items = append(items, fmt.Sprintf("Strong Revenue YoY (%s)", formatPct(v)))
	}
	if v := table.Value(ticker, contracts.FeatureGMDelta); v > 0.01 {
		items = append(items, fmt.Sprintf("Improving Gross Margin (%s)", formatPct(v)))
	}
	if v := table.Value(ticker, contracts.FeatureROAProxy); v > 0.05 {
		items = append(items, fmt.Sprintf("Good Return on Assets (%s)", formatPct(v)))
	}
	if v := table.Value(ticker, contracts.FeatureEVSalesZScore); v < -0.5 {
		items = append(items, fmt.Sprintf("Attractive EV/Sales Z-score (%.1f)", v))
	}
	if v := table.Value(ticker, contracts.FeatureSectorRS6M); v > 0.05 {
		items = append(items, fmt.Sprintf("Strong Sector Relative Strength (%s)", formatPct(v)))
	}
	if v := table.Value(ticker, contracts.FeatureAbove200DMA); v == 1 {
		items = append(items, "Price above 200-day MA")
	}

	for len(items) < g.maxEvidence {
		items = append(items, genericEvidence)
	}
	return strings.Join(items[:g.maxEvidence], "; ")
}

// risks collects warning observations up to the configured limit
func (g *Generator) risks(table *contracts.FeatureTable, ticker string) string {
	var items []string

	if v := table.Value(ticker, contracts.FeatureMaxDrawdown1Y); v < -0.20 {
		items = append(items, fmt.Sprintf("Significant 1-year Drawdown (%s)", formatPct(v)))
	}
	if v := table.Value(ticker, contracts.FeaturePE); v > 50 {
		items = append(items, fmt.Sprintf("High PE Ratio (%.1f)", v))
	}

	for len(items) < g.maxRisks {
		items = append(items, genericRisk)
	}
	return strings.Join(items[:g.maxRisks], "; ")
}

// formatPct renders a ratio as a percentage with one decimal, e.g. 0.153
// becomes "15.3%"
func formatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
