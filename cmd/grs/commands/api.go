package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/growthroom/growthbrief/internal/api"
	"github.com/growthroom/growthbrief/internal/api/handlers"
	"github.com/growthroom/growthbrief/internal/backtest"
	"github.com/growthroom/growthbrief/internal/scheduler"
	"github.com/growthroom/growthbrief/internal/scheduler/jobs"
	"github.com/growthroom/growthbrief/internal/signals"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API with the websocket refresh feed. With
SCHEDULER_ENABLED=true the cron refresh runs in the same process.

Endpoints:
  GET  /health                 - Health check
  GET  /api/scores             - Latest ranked scores
  GET  /api/scores/{ticker}    - One ticker's score
  GET  /api/signals/{ticker}   - Technical signals
  GET  /api/insights           - Evidence and risk summaries
  POST /api/backtest           - Top-N rotation backtest
  POST /api/refresh            - Trigger a scoring run
  GET  /ws                     - Refresh event feed

Example:
  go run ./cmd/grs api
  go run ./cmd/grs api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default from PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	hub := api.NewHub(a.log)
	defer hub.Close()

	notify := handlers.NotifierFunc(func(eventType string, payload interface{}) {
		hub.Broadcast(api.Event{Type: eventType, Payload: payload})
	})

	brief := handlers.NewBriefHandler(
		a.orchestrator,
		a.scoreRepo,
		signals.NewEngine(a.log),
		backtest.NewEngine(a.log),
		a.yahoo,
		a.strategy,
		notify,
		a.log,
	)

	router := api.NewRouter(brief, hub, a.log)
	server := api.New(a.cfg, a.log, router)

	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		sched = scheduler.New(a.log)
		refreshJob := jobs.NewRefreshJob(a.orchestrator, notify, a.cfg.Scheduler.RefreshSchedule, a.log)
		if err := sched.AddJob(refreshJob); err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("port", a.cfg.Port).Info("API server starting")
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.WithField("signal", sig.String()).Info("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
