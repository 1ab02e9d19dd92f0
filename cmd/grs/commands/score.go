package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/growthroom/growthbrief/internal/contracts"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the universe and print the ranked brief",
	Long: `Collects features for every ticker in the strategy universe, scores
them and prints the ranked table with evidence and risk summaries.

Example:
  go run ./cmd/grs score`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.orchestrator.Run(context.Background())
	if err != nil {
		return fmt.Errorf("score run: %w", err)
	}

	fmt.Printf("\n=== GrowthBrief %s (%s) ===\n\n",
		a.strategy.Meta.StrategyID,
		result.Scored.ComputedAt.Format("2006-01-02 15:04"))

	fmt.Printf("%-8s %6s %6s %6s %6s %6s %6s\n", "TICKER", "GRS", "FM", "Q", "VG", "IT", "TC")
	for _, row := range result.Scored.TopN(result.Scored.Len()) {
		fmt.Printf("%-8s %6s %6s %6s %6s %6s %6s\n",
			row.Ticker,
			formatScore(row.GRS),
			formatScore(row.Subscores["FM"]),
			formatScore(row.Subscores["Q"]),
			formatScore(row.Subscores["VG"]),
			formatScore(row.Subscores["IT"]),
			formatScore(row.Subscores["TC"]),
		)
	}

	fmt.Printf("\n--- Top %d ---\n", len(result.Insights))
	for i, ins := range result.Insights {
		fmt.Printf("\n%d. %s (GRS %.1f)\n", i+1, ins.Ticker, ins.GRS)
		fmt.Printf("   Evidence: %s\n", ins.Evidence)
		fmt.Printf("   Risks:    %s\n", ins.Risks)
	}

	fmt.Printf("\nDone in %.1fs\n", result.Duration.Seconds())
	return nil
}

func formatScore(v float64) string {
	if contracts.IsUndefined(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}
