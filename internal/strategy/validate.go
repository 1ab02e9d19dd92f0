package strategy

import (
	"fmt"
	"regexp"
)

// ValidationError is a fatal config violation
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// Validate checks all required constraints and returns the first
// violation found
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.Timezone == "" {
		return ValidationError{"meta.timezone", "required"}
	}

	// === Universe ===
	if len(cfg.Universe.Tickers) == 0 {
		return ValidationError{"universe.tickers", "must not be empty"}
	}
	seen := make(map[string]bool, len(cfg.Universe.Tickers))
	for _, ticker := range cfg.Universe.Tickers {
		if !tickerPattern.MatchString(ticker) {
			return ValidationError{"universe.tickers", fmt.Sprintf("invalid ticker %q", ticker)}
		}
		if seen[ticker] {
			return ValidationError{"universe.tickers", fmt.Sprintf("duplicate ticker %q", ticker)}
		}
		seen[ticker] = true
	}
	if cfg.Universe.Benchmark == "" {
		return ValidationError{"universe.benchmark", "required"}
	}

	// === Scoring ===
	w := cfg.Scoring.Winsorize
	if w.LowerPct < 0 || w.UpperPct > 100 || w.LowerPct >= w.UpperPct {
		return ValidationError{"scoring.winsorize", "must satisfy 0 <= lower_pct < upper_pct <= 100"}
	}
	if sum := cfg.Scoring.WeightsPct.Sum(); sum != 100 {
		return ValidationError{"scoring.weights_pct", fmt.Sprintf("must sum to 100, got %d", sum)}
	}

	// === Selection ===
	if cfg.Selection.TopN <= 0 {
		return ValidationError{"selection.top_n", "must be > 0"}
	}
	if cfg.Selection.TopN > len(cfg.Universe.Tickers) {
		return ValidationError{"selection.top_n", "must not exceed universe size"}
	}
	if cfg.Selection.MinGRS < 0 || cfg.Selection.MinGRS > 100 {
		return ValidationError{"selection.min_grs", "must be in [0, 100]"}
	}
	if cfg.Selection.MaxEvidence <= 0 {
		return ValidationError{"selection.max_evidence", "must be > 0"}
	}
	if cfg.Selection.MaxRisks <= 0 {
		return ValidationError{"selection.max_risks", "must be > 0"}
	}

	// === Backtest ===
	if cfg.Backtest.InitialCapital <= 0 {
		return ValidationError{"backtest.initial_capital", "must be > 0"}
	}
	if cfg.Backtest.Rebalance != "MONTHLY" {
		return ValidationError{"backtest.rebalance", "only MONTHLY is supported"}
	}
	if cfg.Backtest.LookbackYears <= 0 {
		return ValidationError{"backtest.lookback_years", "must be > 0"}
	}
	if cfg.Backtest.Costs.CommissionBps < 0 || cfg.Backtest.Costs.SlippageBps < 0 {
		return ValidationError{"backtest.costs", "must not be negative"}
	}

	return nil
}
