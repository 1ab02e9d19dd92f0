package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// ScoreRepository implements contracts.ScoreRepository. Undefined
// sub-scores are stored as NULL and read back as undefined.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// SaveSnapshot upserts one scoring run keyed by ticker and computed_at
func (r *ScoreRepository) SaveSnapshot(ctx context.Context, scored *contracts.ScoredTable) error {
	rows := scored.Rows()
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO analytics.score_snapshots
			(ticker, computed_at, grs, score_fm, score_q, score_vg, score_it, score_tc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, computed_at) DO UPDATE SET
			grs = EXCLUDED.grs,
			score_fm = EXCLUDED.score_fm,
			score_q = EXCLUDED.score_q,
			score_vg = EXCLUDED.score_vg,
			score_it = EXCLUDED.score_it,
			score_tc = EXCLUDED.score_tc`

	for _, row := range rows {
		batch.Queue(query,
			row.Ticker, scored.ComputedAt, row.GRS,
			nullable(row.Subscores[contracts.CategoryFM]),
			nullable(row.Subscores[contracts.CategoryQ]),
			nullable(row.Subscores[contracts.CategoryVG]),
			nullable(row.Subscores[contracts.CategoryIT]),
			nullable(row.Subscores[contracts.CategoryTC]),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// GetLatestSnapshot returns the rows of the most recent scoring run and
// its timestamp
func (r *ScoreRepository) GetLatestSnapshot(ctx context.Context) ([]contracts.ScoredTicker, time.Time, error) {
	query := `
		SELECT ticker, computed_at, grs, score_fm, score_q, score_vg, score_it, score_tc
		FROM analytics.score_snapshots
		WHERE computed_at = (SELECT MAX(computed_at) FROM analytics.score_snapshots)
		ORDER BY grs DESC, ticker ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var (
		out        []contracts.ScoredTicker
		computedAt time.Time
	)
	for rows.Next() {
		var (
			row               contracts.ScoredTicker
			fm, q, vg, it, tc *float64
		)
		if err := rows.Scan(&row.Ticker, &computedAt, &row.GRS, &fm, &q, &vg, &it, &tc); err != nil {
			return nil, time.Time{}, err
		}
		row.Subscores = map[contracts.Category]float64{
			contracts.CategoryFM: deref(fm),
			contracts.CategoryQ:  deref(q),
			contracts.CategoryVG: deref(vg),
			contracts.CategoryIT: deref(it),
			contracts.CategoryTC: deref(tc),
		}
		out = append(out, row)
	}
	return out, computedAt, rows.Err()
}

// nullable maps undefined values to NULL for storage
func nullable(v float64) *float64 {
	if contracts.IsUndefined(v) {
		return nil
	}
	return &v
}

// deref maps NULL back to undefined
func deref(v *float64) float64 {
	if v == nil {
		return contracts.Undefined()
	}
	return *v
}
