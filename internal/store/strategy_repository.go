package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growthroom/growthbrief/internal/strategy"
)

// StrategyRepository records which strategy configuration produced each
// scoring run, keyed by config hash so reruns of the same file are idempotent
type StrategyRepository struct {
	pool *pgxpool.Pool
}

func NewStrategyRepository(pool *pgxpool.Pool) *StrategyRepository {
	return &StrategyRepository{pool: pool}
}

// SaveSnapshot upserts one decision snapshot
func (r *StrategyRepository) SaveSnapshot(ctx context.Context, snapshot *strategy.DecisionSnapshot) error {
	query := `
		INSERT INTO analytics.strategy_snapshots (config_hash, strategy_id, config_yaml, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (config_hash) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		snapshot.ConfigHash,
		snapshot.StrategyID,
		snapshot.ConfigYAML,
		snapshot.CreatedAt,
	)
	return err
}

// GetSnapshot loads one decision snapshot by hash
func (r *StrategyRepository) GetSnapshot(ctx context.Context, configHash string) (*strategy.DecisionSnapshot, error) {
	query := `
		SELECT config_hash, strategy_id, config_yaml, created_at
		FROM analytics.strategy_snapshots
		WHERE config_hash = $1
	`

	var snapshot strategy.DecisionSnapshot
	err := r.pool.QueryRow(ctx, query, configHash).Scan(
		&snapshot.ConfigHash,
		&snapshot.StrategyID,
		&snapshot.ConfigYAML,
		&snapshot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
