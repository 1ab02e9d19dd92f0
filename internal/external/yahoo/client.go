// Package yahoo implements the market data sources against Yahoo
// Finance. All outbound calls to Yahoo go through this client.
package yahoo

import (
	"time"

	"github.com/growthroom/growthbrief/pkg/config"
	"github.com/growthroom/growthbrief/pkg/httputil"
	"github.com/growthroom/growthbrief/pkg/logger"
	"github.com/growthroom/growthbrief/pkg/redis"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client handles communication with Yahoo Finance
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	cache        *redis.Cache
	chartBaseURL string
	quoteBaseURL string
	cacheTTL     time.Duration
}

// NewClient creates a Yahoo Finance client. The cache may be backed by a
// disabled Redis client, in which case every lookup misses.
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		httpClient:   httpClient.WithUserAgent(defaultUserAgent),
		logger:       log,
		cache:        cache,
		chartBaseURL: cfg.Yahoo.ChartBaseURL,
		quoteBaseURL: cfg.Yahoo.QuoteBaseURL,
		cacheTTL:     cfg.Yahoo.CacheTTL,
	}
}
