package strategy

import "time"

// Config is the full selection-strategy configuration loaded from YAML.
// It is the single source of truth for universe membership, scoring
// weights and backtest assumptions.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Universe  Universe  `yaml:"universe" json:"universe"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
	Selection Selection `yaml:"selection" json:"selection"`
	Backtest  Backtest  `yaml:"backtest" json:"backtest"`
}

// Meta identifies the strategy revision
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

// Universe names the scoreable pool and the benchmark used for
// relative-strength features
type Universe struct {
	Tickers   []string `yaml:"tickers" json:"tickers"`
	Benchmark string   `yaml:"benchmark" json:"benchmark"`
}

// Scoring holds the normalization band and the category weights
type Scoring struct {
	Winsorize  Winsorize  `yaml:"winsorize" json:"winsorize"`
	WeightsPct WeightsPct `yaml:"weights_pct" json:"weights_pct"`
}

type Winsorize struct {
	LowerPct float64 `yaml:"lower_pct" json:"lower_pct"`
	UpperPct float64 `yaml:"upper_pct" json:"upper_pct"`
}

// WeightsPct are integer percentage weights per scoring category
type WeightsPct struct {
	FundamentalsMomentum  int `yaml:"fundamentals_momentum" json:"fundamentals_momentum"`
	Quality               int `yaml:"quality" json:"quality"`
	ValuationGrowth       int `yaml:"valuation_growth" json:"valuation_growth"`
	IndustryTailwind      int `yaml:"industry_tailwind" json:"industry_tailwind"`
	TechnicalConfirmation int `yaml:"technical_confirmation" json:"technical_confirmation"`
}

// Sum returns the sum of all category weights
func (w WeightsPct) Sum() int {
	return w.FundamentalsMomentum + w.Quality + w.ValuationGrowth +
		w.IndustryTailwind + w.TechnicalConfirmation
}

// Selection controls how many names the brief surfaces and how each
// insight is sized
type Selection struct {
	TopN        int     `yaml:"top_n" json:"top_n"`
	MinGRS      float64 `yaml:"min_grs" json:"min_grs"`
	MaxEvidence int     `yaml:"max_evidence" json:"max_evidence"`
	MaxRisks    int     `yaml:"max_risks" json:"max_risks"`
}

// Backtest holds the rotation backtest assumptions
type Backtest struct {
	InitialCapital float64       `yaml:"initial_capital" json:"initial_capital"`
	Rebalance      string        `yaml:"rebalance" json:"rebalance"` // MONTHLY
	LookbackYears  int           `yaml:"lookback_years" json:"lookback_years"`
	Costs          BacktestCosts `yaml:"costs" json:"costs"`
}

type BacktestCosts struct {
	CommissionBps float64 `yaml:"commission_bps" json:"commission_bps"`
	SlippageBps   float64 `yaml:"slippage_bps" json:"slippage_bps"`
}

// DecisionSnapshot records the exact configuration a scoring run used,
// so that any published brief can be reproduced later
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}
