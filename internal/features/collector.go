package features

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/pkg/logger"
)

// History depths the feature builders need. Fifteen months covers the
// 200-day moving average plus the six-month momentum lookback.
const (
	fullHistoryMonths = 15
	drawdownYears     = 1
)

// Collector fetches raw data per ticker and assembles the feature table.
// Fetch failures degrade to undefined columns for that ticker; only a
// cancelled context aborts the run.
type Collector struct {
	prices       contracts.PriceSource
	fundamentals contracts.FundamentalsSource
	benchmark    string
	logger       *logger.Logger
}

func NewCollector(prices contracts.PriceSource, fundamentals contracts.FundamentalsSource, benchmark string, log *logger.Logger) *Collector {
	return &Collector{
		prices:       prices,
		fundamentals: fundamentals,
		benchmark:    benchmark,
		logger:       log,
	}
}

// tickerFeatures is one ticker's worth of builder output
type tickerFeatures struct {
	fundamentals FundamentalsFeatures
	quality      QualityFeatures
	valuation    ValuationFeatures
	industry     IndustryFeatures
	technical    TechnicalFeatures
}

// Collect builds the feature table for the universe as of now. Tickers
// are fetched concurrently; sector ETF and benchmark histories are
// fetched once and shared.
func (c *Collector) Collect(ctx context.Context, tickers []string) (*contracts.FeatureTable, error) {
	table, err := contracts.NewFeatureTable(tickers)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fullFrom := now.AddDate(0, -fullHistoryMonths, 0)

	benchHistory, err := c.prices.FetchPrices(ctx, c.benchmark, fullFrom, now)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", c.benchmark).Warn("Benchmark history unavailable")
		benchHistory = nil
	}

	sectorHistories := c.fetchSectorHistories(ctx, tickers, fullFrom, now)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]tickerFeatures, len(tickers))
	)

	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			feats := c.collectTicker(ctx, ticker, fullFrom, now, sectorHistories, benchHistory)
			mu.Lock()
			results[ticker] = feats
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for ticker, feats := range results {
		if err := fillRow(table, ticker, feats); err != nil {
			return nil, fmt.Errorf("features: fill row for %s: %w", ticker, err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"tickers":   len(tickers),
		"benchmark": c.benchmark,
	}).Info("Collected feature table")

	return table, nil
}

// fetchSectorHistories loads each distinct sector ETF referenced by the
// universe exactly once
func (c *Collector) fetchSectorHistories(ctx context.Context, tickers []string, from, to time.Time) map[string]contracts.PriceSeries {
	histories := make(map[string]contracts.PriceSeries)
	for _, ticker := range tickers {
		etf, ok := SectorETF(ticker)
		if !ok {
			continue
		}
		if _, done := histories[etf]; done {
			continue
		}
		series, err := c.prices.FetchPrices(ctx, etf, from, to)
		if err != nil {
			c.logger.WithError(err).WithField("ticker", etf).Warn("Sector ETF history unavailable")
			series = nil
		}
		histories[etf] = series
	}
	return histories
}

func (c *Collector) collectTicker(ctx context.Context, ticker string, from, to time.Time, sectors map[string]contracts.PriceSeries, bench contracts.PriceSeries) tickerFeatures {
	feats := tickerFeatures{
		fundamentals: BuildFundamentals(nil),
		quality:      BuildQuality(nil),
		valuation:    BuildValuation(nil, nil),
		industry:     BuildIndustry(nil, nil),
		technical:    BuildTechnical(nil, nil),
	}

	stmts, err := c.fundamentals.FetchStatements(ctx, ticker)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Statements unavailable")
		stmts = nil
	}
	stats, err := c.fundamentals.FetchQuoteStats(ctx, ticker)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Quote stats unavailable")
		stats = nil
	}

	feats.fundamentals = BuildFundamentals(stmts)
	feats.quality = BuildQuality(stmts)
	feats.valuation = BuildValuation(stats, stmts)

	history, err := c.prices.FetchPrices(ctx, ticker, from, to)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Price history unavailable")
		history = nil
	}
	yearCutoff := to.AddDate(-drawdownYears, 0, 0)
	feats.technical = BuildTechnical(history, history.Since(yearCutoff))

	if etf, ok := SectorETF(ticker); ok {
		feats.industry = BuildIndustry(sectors[etf], bench)
	}

	return feats
}

// fillRow writes every defined builder output into the table. Undefined
// values are skipped since absent cells already read back as undefined.
func fillRow(table *contracts.FeatureTable, ticker string, feats tickerFeatures) error {
	values := map[contracts.Feature]float64{
		contracts.FeatureRevYoY:   feats.fundamentals.RevYoY,
		contracts.FeatureGMDelta:  feats.fundamentals.GMDelta,
		contracts.FeatureOMDelta:  feats.fundamentals.OMDelta,
		contracts.FeatureFCFDelta: feats.fundamentals.FCFDelta,

		contracts.FeatureROAProxy:       feats.quality.ROAProxy,
		contracts.FeatureCashConversion: feats.quality.CashConversion,
		contracts.FeatureAccrualsProxy:  feats.fundamentals.AccrualsProxy,

		contracts.FeaturePE:            feats.valuation.PE,
		contracts.FeatureEVSales:       feats.valuation.EVSales,
		contracts.FeatureEVSalesZScore: feats.valuation.EVSalesZScore,
		contracts.FeaturePEGProxy:      feats.valuation.PEGProxy,

		contracts.FeatureSectorRS6M:        feats.industry.SectorRS6M,
		contracts.FeatureSectorRS12M:       feats.industry.SectorRS12M,
		contracts.FeatureSectorAbove50DMA:  feats.industry.SectorAbove50DMA,
		contracts.FeatureSectorAbove200DMA: feats.industry.SectorAbove200DMA,

		contracts.FeatureAbove50DMA:    feats.technical.Above50DMA,
		contracts.FeatureAbove100DMA:   feats.technical.Above100DMA,
		contracts.FeatureAbove200DMA:   feats.technical.Above200DMA,
		contracts.FeatureSixMMomentum:  feats.technical.SixMMomentum,
		contracts.FeatureMaxDrawdown1Y: feats.technical.MaxDrawdown1Y,
	}

	for feature, value := range values {
		if contracts.IsUndefined(value) {
			continue
		}
		if err := table.SetValue(ticker, feature, value); err != nil {
			return err
		}
	}
	return nil
}
