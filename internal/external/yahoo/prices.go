package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// chartResponse mirrors the v8 chart API payload, limited to the fields
// the price source reads
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchPrices fetches daily adjusted closes for a ticker over the date
// range, consulting the cache first
func (c *Client) FetchPrices(ctx context.Context, ticker string, from, to time.Time) (contracts.PriceSeries, error) {
	cacheKey := fmt.Sprintf("prices:%s:%s:%s", ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var cached contracts.PriceSeries
	if hit, err := c.cache.Get(ctx, cacheKey, &cached); err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Price cache read failed")
	} else if hit {
		c.logger.WithField("ticker", ticker).Debug("Price cache hit")
		return cached, nil
	}

	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	params.Set("period2", fmt.Sprintf("%d", to.Unix()))
	params.Set("interval", "1d")
	params.Set("events", "div,split")

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.chartBaseURL, url.PathEscape(ticker), params.Encode())

	var payload chartResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &payload); err != nil {
		return nil, fmt.Errorf("yahoo: fetch chart for %s: %w", ticker, err)
	}

	series, err := parseChart(ticker, &payload)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, cacheKey, series, c.cacheTTL); err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Price cache write failed")
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"points": len(series),
	}).Debug("Fetched prices")

	return series, nil
}

// parseChart turns the chart payload into an ordered price series,
// preferring adjusted closes and skipping null observations
func parseChart(ticker string, payload *chartResponse) (contracts.PriceSeries, error) {
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: chart error for %s: %s", ticker, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty chart result for %s", ticker)
	}

	result := payload.Chart.Result[0]

	var closes []*float64
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) > 0 {
		closes = result.Indicators.AdjClose[0].AdjClose
	} else if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("yahoo: misaligned chart data for %s", ticker)
	}

	series := make(contracts.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		series = append(series, contracts.PricePoint{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *closes[i],
		})
	}
	return series, nil
}
