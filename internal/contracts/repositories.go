package contracts

import (
	"context"
	"time"
)

// PriceSource fetches daily close history from an external market data
// provider. Implementations own retries, rate limiting and caching; the
// core never performs I/O.
type PriceSource interface {
	FetchPrices(ctx context.Context, ticker string, from, to time.Time) (PriceSeries, error)
}

// FundamentalsSource fetches statement lines and quote statistics
type FundamentalsSource interface {
	FetchStatements(ctx context.Context, ticker string) (*Statements, error)
	FetchQuoteStats(ctx context.Context, ticker string) (*QuoteStats, error)
}

// PriceRepository persists daily prices
type PriceRepository interface {
	GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) (PriceSeries, error)
	SaveBatch(ctx context.Context, ticker string, prices PriceSeries) error
}

// ScoreRepository persists score snapshots
type ScoreRepository interface {
	SaveSnapshot(ctx context.Context, scored *ScoredTable) error
	GetLatestSnapshot(ctx context.Context) ([]ScoredTicker, time.Time, error)
}
