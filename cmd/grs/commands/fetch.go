package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/growthroom/growthbrief/internal/scheduler/jobs"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Sync recent daily prices into the database",
	Long: `Fetches the last week of daily closes for the universe and the
benchmark and upserts them into the local price store.

Requires DATABASE_URL.

Example:
  go run ./cmd/grs fetch`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.priceRepo == nil {
		return fmt.Errorf("fetch requires DATABASE_URL")
	}

	tickers := append([]string{}, a.strategy.Universe.Tickers...)
	tickers = append(tickers, a.strategy.Universe.Benchmark)

	job := jobs.NewPriceSyncJob(a.yahoo, a.priceRepo, tickers, a.cfg.Scheduler.RefreshSchedule, a.log)
	if err := job.Run(context.Background()); err != nil {
		return fmt.Errorf("price sync: %w", err)
	}

	fmt.Printf("Synced %d tickers\n", len(tickers))
	return nil
}
