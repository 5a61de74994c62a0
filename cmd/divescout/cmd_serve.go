package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"DiveScout/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API only",
	Long:  "Serve the HTTP API without cron jobs or Telegram. Conditions are evaluated on request.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	router := server.SetupRouter(a.sched, a.metrics, cfg.Server.CORSOrigins, logger)
	return server.ListenAndServe(ctx, cfg.Server.Addr, router, logger)
}
