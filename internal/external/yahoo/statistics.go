package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// FetchQuoteStats scrapes trailing PE and enterprise value from the
// ticker's key-statistics page. Figures the page does not show come back
// undefined, not as an error.
func (c *Client) FetchQuoteStats(ctx context.Context, ticker string) (*contracts.QuoteStats, error) {
	fullURL := fmt.Sprintf("%s/quote/%s/key-statistics", c.quoteBaseURL, ticker)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("yahoo: fetch statistics for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: statistics for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo: read statistics body for %s: %w", ticker, err)
	}

	stats, err := parseStatisticsHTML(string(body))
	if err != nil {
		return nil, fmt.Errorf("yahoo: parse statistics for %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"pe":     stats.TrailingPE,
	}).Debug("Fetched quote statistics")

	return stats, nil
}

// parseStatisticsHTML walks the statistics tables pairing label cells with
// their value cells
func parseStatisticsHTML(html string) (*contracts.QuoteStats, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	stats := &contracts.QuoteStats{
		TrailingPE:      contracts.Undefined(),
		EnterpriseValue: contracts.Undefined(),
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		value := strings.TrimSpace(cells.Eq(1).Text())

		switch {
		case strings.HasPrefix(label, "Trailing P/E"):
			if v, ok := parseAbbreviatedNumber(value); ok {
				stats.TrailingPE = v
			}
		case strings.HasPrefix(label, "Enterprise Value"):
			if v, ok := parseAbbreviatedNumber(value); ok {
				stats.EnterpriseValue = v
			}
		}
	})

	return stats, nil
}

// parseAbbreviatedNumber reads figures like "28.41", "1.23B" or "987.5M".
// "N/A" and dashes report not-ok.
func parseAbbreviatedNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "N/A" || s == "--" {
		return 0, false
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "T"):
		multiplier = 1e12
		s = strings.TrimSuffix(s, "T")
	case strings.HasSuffix(s, "B"):
		multiplier = 1e9
		s = strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		multiplier = 1e6
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "k"):
		multiplier = 1e3
		s = strings.TrimSuffix(s, "k")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * multiplier, true
}
