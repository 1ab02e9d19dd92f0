package commands

import (
	"github.com/spf13/cobra"
)

var (
	strategyFile string
)

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grs",
	Short: "GrowthBrief - Growth Room Score equity scoring",
	Long: `GrowthBrief scores a US growth universe with the Growth Room Score,
a 0-100 composite over fundamentals momentum, quality, valuation vs
growth, industry tailwind and technical confirmation.

Usage:
  go run ./cmd/grs [command]

Examples:
  go run ./cmd/grs score
  go run ./cmd/grs signals AAPL
  go run ./cmd/grs backtest --top-n 5
  go run ./cmd/grs api`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default from STRATEGY_PATH)")
}
