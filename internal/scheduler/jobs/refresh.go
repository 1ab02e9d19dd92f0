// Package jobs holds the scheduled jobs of the service.
package jobs

import (
	"context"
	"fmt"

	"github.com/growthroom/growthbrief/internal/brain"
	"github.com/growthroom/growthbrief/pkg/logger"
)

// Notifier pushes job outcomes to live subscribers
type Notifier interface {
	Notify(eventType string, payload interface{})
}

// RefreshJob runs the scoring pipeline on a cron schedule and announces
// fresh scores to websocket subscribers
type RefreshJob struct {
	orchestrator *brain.Orchestrator
	notifier     Notifier
	schedule     string
	logger       *logger.Logger
}

func NewRefreshJob(orchestrator *brain.Orchestrator, notifier Notifier, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		orchestrator: orchestrator,
		notifier:     notifier,
		schedule:     schedule,
		logger:       log,
	}
}

func (j *RefreshJob) Name() string {
	return "score_refresh"
}

func (j *RefreshJob) Schedule() string {
	return j.schedule
}

func (j *RefreshJob) Run(ctx context.Context) error {
	result, err := j.orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("refresh job: %w", err)
	}

	if j.notifier != nil {
		j.notifier.Notify("scores_refreshed", map[string]interface{}{
			"computed_at": result.Scored.ComputedAt,
			"tickers":     result.Scored.Len(),
		})
	}

	return nil
}
