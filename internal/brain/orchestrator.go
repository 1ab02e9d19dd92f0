// Package brain coordinates the scoring pipeline end to end: feature
// collection, scoring, insight generation and snapshot persistence.
package brain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/internal/features"
	"github.com/growthroom/growthbrief/internal/insight"
	"github.com/growthroom/growthbrief/internal/scoring"
	"github.com/growthroom/growthbrief/internal/strategy"
	"github.com/growthroom/growthbrief/pkg/logger"
)

// Orchestrator runs the refresh pipeline. The score repository is
// optional; without one the pipeline still scores but nothing persists.
type Orchestrator struct {
	collector *features.Collector
	scorer    *scoring.Scorer
	insights  *insight.Generator
	scoreRepo contracts.ScoreRepository
	strategy  *strategy.Config
	logger    *logger.Logger

	mu     sync.RWMutex
	latest *RunResult
}

func NewOrchestrator(
	collector *features.Collector,
	scorer *scoring.Scorer,
	insights *insight.Generator,
	scoreRepo contracts.ScoreRepository,
	strategyCfg *strategy.Config,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		collector: collector,
		scorer:    scorer,
		insights:  insights,
		scoreRepo: scoreRepo,
		strategy:  strategyCfg,
		logger:    log,
	}
}

// RunResult holds the output of one complete pipeline run
type RunResult struct {
	Scored   *contracts.ScoredTable
	Insights []contracts.Insight
	Duration time.Duration
}

// Run executes one refresh over the configured universe
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	o.logger.WithFields(map[string]interface{}{
		"strategy": o.strategy.Meta.StrategyID,
		"universe": len(o.strategy.Universe.Tickers),
	}).Info("Pipeline run started")

	table, err := o.collector.Collect(ctx, o.strategy.Universe.Tickers)
	if err != nil {
		return nil, fmt.Errorf("brain: collect features: %w", err)
	}

	scored, err := o.scorer.Score(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("brain: score: %w", err)
	}

	insights, err := o.insights.Generate(ctx, scored, o.strategy.Selection.TopN)
	if err != nil {
		return nil, fmt.Errorf("brain: generate insights: %w", err)
	}

	if o.scoreRepo != nil {
		if err := o.scoreRepo.SaveSnapshot(ctx, scored); err != nil {
			// Persistence failure does not invalidate the run
			o.logger.WithError(err).Error("Failed to persist score snapshot")
		}
	}

	result := &RunResult{
		Scored:   scored,
		Insights: insights,
		Duration: time.Since(start),
	}

	o.mu.Lock()
	o.latest = result
	o.mu.Unlock()

	o.logger.WithFields(map[string]interface{}{
		"tickers":  scored.Len(),
		"duration": result.Duration,
	}).Info("Pipeline run finished")

	return result, nil
}

// Latest returns the most recent run result, or nil before the first run
func (o *Orchestrator) Latest() *RunResult {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.latest
}
