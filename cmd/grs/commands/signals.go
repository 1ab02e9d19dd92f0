package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/growthroom/growthbrief/internal/contracts"
	"github.com/growthroom/growthbrief/internal/signals"
)

var signalsCmd = &cobra.Command{
	Use:   "signals TICKER",
	Short: "Print the latest technical signals for one ticker",
	Long: `Fetches daily price history and prints the current moving averages,
momentum, volatility and trend flag.

Example:
  go run ./cmd/grs signals AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: runSignals,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}

func runSignals(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(args[0])

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	now := time.Now()

	series, err := a.yahoo.FetchPrices(ctx, ticker, now.AddDate(0, -15, 0), now)
	if err != nil {
		return fmt.Errorf("fetch prices for %s: %w", ticker, err)
	}
	if len(series) == 0 {
		return fmt.Errorf("no price history for %s", ticker)
	}

	engine := signals.NewEngine(a.log)
	computed := engine.Compute(ctx, map[string]contracts.PriceSeries{ticker: series})

	last, ok := computed[ticker].Last()
	if !ok {
		return fmt.Errorf("no signals computed for %s", ticker)
	}

	fmt.Printf("\n=== %s signals (%s) ===\n\n", ticker, last.Date.Format("2006-01-02"))
	fmt.Printf("  Price      : %.2f\n", last.Price)
	fmt.Printf("  SMA 50     : %s\n", formatScore(last.SMA50))
	fmt.Printf("  SMA 100    : %s\n", formatScore(last.SMA100))
	fmt.Printf("  SMA 200    : %s\n", formatScore(last.SMA200))
	fmt.Printf("  6M Mom %%   : %s\n", formatScore(last.SixMonthMomentumPct))
	fmt.Printf("  Vol 20d    : %s\n", formatScore(last.Volatility20D))
	fmt.Printf("  Trend      : %s\n", last.Uptrend)

	return nil
}
