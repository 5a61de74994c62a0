package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"DiveScout/internal/server"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler, Telegram bot and HTTP API",
	Long:  "Run the daily report and refresh jobs, answer Telegram commands and serve the HTTP API until interrupted.",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	logger.Info().Str("location", cfg.Location.Name).Msg("DiveScout starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.sched.RegisterAll(cfg.Schedule.ReportCron, cfg.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	a.sched.Start()
	defer a.sched.Stop()

	if a.telegram != nil {
		go a.telegram.StartPolling(ctx, a.sched.HandleCommand)
		logger.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info().Msg("RUN_ON_START enabled, sending the daily report now")
		go func() {
			if _, err := a.sched.RunReportNow(); err != nil {
				logger.Error().Err(err).Msg("report on start")
			}
		}()
	}

	router := server.SetupRouter(a.sched, a.metrics, cfg.Server.CORSOrigins, logger)
	if err := server.ListenAndServe(ctx, cfg.Server.Addr, router, logger); err != nil {
		return err
	}
	logger.Info().Msg("DiveScout stopped")
	return nil
}
