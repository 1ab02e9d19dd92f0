package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/pkg/logger"
)

// syncLookbackDays covers weekends, holidays and late adjustments
const syncLookbackDays = 7

// PriceSyncJob mirrors recent daily closes for the universe and the
// benchmark into the local price store
type PriceSyncJob struct {
	source   contracts.PriceSource
	repo     contracts.PriceRepository
	tickers  []string
	schedule string
	logger   *logger.Logger
}

func NewPriceSyncJob(source contracts.PriceSource, repo contracts.PriceRepository, tickers []string, schedule string, log *logger.Logger) *PriceSyncJob {
	return &PriceSyncJob{
		source:   source,
		repo:     repo,
		tickers:  tickers,
		schedule: schedule,
		logger:   log,
	}
}

func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

func (j *PriceSyncJob) Schedule() string {
	return j.schedule
}

func (j *PriceSyncJob) Run(ctx context.Context) error {
	to := time.Now()
	from := to.AddDate(0, 0, -syncLookbackDays)

	var failed int
	for _, ticker := range j.tickers {
		if err := ctx.Err(); err != nil {
			return err
		}

		series, err := j.source.FetchPrices(ctx, ticker, from, to)
		if err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Price sync fetch failed")
			failed++
			continue
		}
		if len(series) == 0 {
			continue
		}

		if err := j.repo.SaveBatch(ctx, ticker, series); err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Price sync save failed")
			failed++
		}
	}

	if failed == len(j.tickers) && len(j.tickers) > 0 {
		return fmt.Errorf("price sync: all %d tickers failed", failed)
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(j.tickers),
		"failed":  failed,
	}).Info("Price sync finished")

	return nil
}
