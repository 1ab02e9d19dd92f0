package commands

import (
	"context"
	"fmt"

	"github.com/growthroom/growthbrief/internal/brain"
	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/internal/external/yahoo"
	"github.com/growthroom/growthbrief/internal/features"
	"github.com/growthroom/growthbrief/internal/insight"
	"github.com/growthroom/growthbrief/internal/scoring"
	"github.com/growthroom/growthbrief/internal/store"
	"github.com/growthroom/growthbrief/internal/strategy"
	"github.com/growthroom/growthbrief/pkg/config"
	"github.com/growthroom/growthbrief/pkg/database"
	"github.com/growthroom/growthbrief/pkg/httputil"
	"github.com/growthroom/growthbrief/pkg/logger"
	"github.com/growthroom/growthbrief/pkg/redis"
)

// app holds everything a command needs wired. The database is optional;
// commands that can run without persistence degrade to in-memory only.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategy.Config
	snapshot *strategy.DecisionSnapshot

	db    *database.DB
	redis *redis.Client
	yahoo *yahoo.Client

	priceRepo contracts.PriceRepository
	scoreRepo contracts.ScoreRepository

	orchestrator *brain.Orchestrator
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	strategyPath := cfg.StrategyPath
	if strategyFile != "" {
		strategyPath = strategyFile
	}
	strategyCfg, rawYAML, err := strategy.Load(strategyPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	snapshot, err := strategy.NewDecisionSnapshot(strategyCfg, rawYAML)
	if err != nil {
		return nil, fmt.Errorf("snapshot strategy: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"strategy": strategyCfg.Meta.StrategyID,
		"hash":     snapshot.ConfigHash[:12],
		"universe": len(strategyCfg.Universe.Tickers),
	}).Info("Strategy loaded")

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "growthbrief")

	httpClient := httputil.New(log).WithRateLimit(cfg.Yahoo.RatePerSec)
	yahooClient := yahoo.NewClient(cfg, httpClient, cache, log)

	a := &app{
		cfg:      cfg,
		log:      log,
		strategy: strategyCfg,
		snapshot: snapshot,
		redis:    redisClient,
		yahoo:    yahooClient,
	}

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.db = db
		a.priceRepo = store.NewPriceRepository(db.Pool)
		a.scoreRepo = store.NewScoreRepository(db.Pool)

		strategyRepo := store.NewStrategyRepository(db.Pool)
		if err := strategyRepo.SaveSnapshot(context.Background(), snapshot); err != nil {
			log.WithError(err).Warn("Failed to record strategy snapshot")
		}
	} else {
		log.Warn("DATABASE_URL not set, running without persistence")
	}

	scorer, err := scoring.NewScorer(strategyCfg.ToScoringConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("build scorer: %w", err)
	}

	collector := features.NewCollector(yahooClient, yahooClient, strategyCfg.Universe.Benchmark, log)
	generator := insight.NewGenerator(log).
		WithLimits(strategyCfg.Selection.MaxEvidence, strategyCfg.Selection.MaxRisks).
		WithMinGRS(strategyCfg.Selection.MinGRS)
	a.orchestrator = brain.NewOrchestrator(collector, scorer, generator, a.scoreRepo, strategyCfg, log)

	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
