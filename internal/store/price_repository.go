// Package store implements the persistence repositories on PostgreSQL.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository
type PriceRepository struct {
	pool *pgxpool.Pool
}

func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetByTickerAndDateRange retrieves daily closes for a ticker within the
// date range, oldest first
func (r *PriceRepository) GetByTickerAndDateRange(ctx context.Context, ticker string, from, to time.Time) (contracts.PriceSeries, error) {
	query := `
		SELECT trade_date, close_price
		FROM market.daily_prices
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series contracts.PriceSeries
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// SaveBatch upserts a ticker's daily closes
func (r *PriceRepository) SaveBatch(ctx context.Context, ticker string, prices contracts.PriceSeries) error {
	if len(prices) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO market.daily_prices (ticker, trade_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price`

	for _, p := range prices {
		batch.Queue(query, ticker, p.Date, p.Close)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range prices {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}

	return nil
}
