package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/growthroom/growthbrief/internal/scheduler"
	"github.com/growthroom/growthbrief/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the cron jobs in the foreground",
	Long: `Runs the scheduled jobs without the API server: the score refresh
on SCHEDULER_REFRESH_CRON and, with DATABASE_URL set, the daily price
sync.

Example:
  go run ./cmd/grs scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.New(a.log)

	refreshJob := jobs.NewRefreshJob(a.orchestrator, nil, a.cfg.Scheduler.RefreshSchedule, a.log)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	if a.priceRepo != nil {
		tickers := append([]string{}, a.strategy.Universe.Tickers...)
		tickers = append(tickers, a.strategy.Universe.Benchmark)

		syncJob := jobs.NewPriceSyncJob(a.yahoo, a.priceRepo, tickers, a.cfg.Scheduler.RefreshSchedule, a.log)
		if err := sched.AddJob(syncJob); err != nil {
			return fmt.Errorf("schedule price sync: %w", err)
		}
	}

	sched.Start()
	defer sched.Stop()

	a.log.WithField("jobs", sched.Jobs()).Info("Scheduler running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return nil
}
