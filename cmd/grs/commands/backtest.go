package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/growthroom/growthbrief/internal/backtest"
	"github.com/growthroom/growthbrief/internal/contracts"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the monthly top-N rotation backtest",
	Long: `Scores the universe, then simulates holding the top-N tickers with
monthly rebalancing over the lookback window and prints the performance
metrics.

Example:
  go run ./cmd/grs backtest
  go run ./cmd/grs backtest --top-n 3 --years 2`,
	RunE: runBacktest,
}

var (
	backtestTopN    int
	backtestYears   int
	backtestCapital float64
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().IntVar(&backtestTopN, "top-n", 0, "holdings per rebalance (default from strategy)")
	backtestCmd.Flags().IntVar(&backtestYears, "years", 0, "lookback years (default from strategy)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital (default from strategy)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	topN := a.strategy.Selection.TopN
	if backtestTopN > 0 {
		topN = backtestTopN
	}
	years := a.strategy.Backtest.LookbackYears
	if backtestYears > 0 {
		years = backtestYears
	}
	capital := a.strategy.Backtest.InitialCapital
	if backtestCapital > 0 {
		capital = backtestCapital
	}

	ctx := context.Background()

	result, err := a.orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("score run: %w", err)
	}

	now := time.Now()
	from := now.AddDate(-years, 0, 0)

	prices := make(map[string]contracts.PriceSeries)
	for _, ticker := range a.strategy.Universe.Tickers {
		series, err := a.yahoo.FetchPrices(ctx, ticker, from, now)
		if err != nil {
			a.log.WithError(err).WithField("ticker", ticker).Warn("Backtest price fetch failed")
			continue
		}
		prices[ticker] = series
	}

	engine := backtest.NewEngine(a.log)
	simulated, err := engine.Run(ctx, backtest.Input{
		Prices:         prices,
		Ranked:         result.Scored.TopN(result.Scored.Len()),
		TopN:           topN,
		InitialCapital: capital,
		CommissionBps:  a.strategy.Backtest.Costs.CommissionBps,
		SlippageBps:    a.strategy.Backtest.Costs.SlippageBps,
	})
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	m := simulated.Metrics
	fmt.Printf("\n=== Backtest: top %d, %dy, %.0f start ===\n\n", topN, years, capital)
	fmt.Printf("  Total return : %s\n", formatPctMetric(m.TotalReturn))
	fmt.Printf("  CAGR         : %s\n", formatPctMetric(m.CAGR))
	fmt.Printf("  Ann. vol     : %s\n", formatPctMetric(m.AnnualizedVol))
	fmt.Printf("  Sharpe       : %s\n", formatScore(m.SharpeRatio))
	fmt.Printf("  Sortino      : %s\n", formatScore(m.SortinoRatio))
	fmt.Printf("  Max drawdown : %s\n", formatPctMetric(m.MaxDrawdown))
	fmt.Printf("  Hit rate     : %s\n", formatPctMetric(m.HitRate))
	fmt.Printf("  Trades       : %d\n", len(simulated.Trades))

	return nil
}

func formatPctMetric(v float64) string {
	if contracts.IsUndefined(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}
