package main

import (
	"context"
	"fmt"
	"time"

	"DiveScout/internal/cache"
	"DiveScout/internal/collector"
	"DiveScout/internal/metrics"
	"DiveScout/internal/notifier"
	"DiveScout/internal/recorder"
	"DiveScout/internal/scheduler"
	"DiveScout/internal/scoring"
)

// app is the wired pipeline shared by every command.
type app struct {
	loc      *time.Location
	cache    cache.Cache
	metrics  *metrics.Metrics
	recorder recorder.Recorder
	telegram *notifier.TelegramNotifier // nil when Telegram is not configured
	sched    *scheduler.Scheduler
}

// buildApp wires config into the collector, recorder, notifier and scheduler.
// Pushes are enabled only when withTelegram is set and the bot is configured.
func buildApp(ctx context.Context, withTelegram bool) (*app, error) {
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	a := &app{loc: loc, metrics: metrics.New()}
	a.cache = cache.New(cache.Config{
		Backend:        cfg.Cache.Backend,
		RedisAddr:      cfg.Cache.RedisAddr,
		RedisPassword:  cfg.Cache.RedisPassword,
		RedisDB:        cfg.Cache.RedisDB,
		DisableOnError: cfg.Cache.DisableOnError,
	}, logger)

	col, err := collector.NewFromConfig(cfg, a.cache, a.metrics, logger)
	if err != nil {
		_ = a.cache.Close()
		return nil, fmt.Errorf("init collector: %w", err)
	}
	logger.Info().
		Str("tide", col.Sources.Tide.Name()).
		Str("moon", col.Sources.Moon.Name()).
		Str("rain", col.Sources.Rain.Name()).
		Str("wind", col.Sources.Wind.Name()).
		Msg("data sources")

	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		a.recorder = recorder.NewNoopRecorder()
	} else {
		a.recorder = sr
	}

	// A typed nil must not reach the scheduler as a Sender.
	var sender scheduler.Sender
	if withTelegram {
		if err := cfg.ValidateTelegram(); err != nil {
			logger.Warn().Err(err).Msg("telegram disabled")
		} else {
			a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
			sender = a.telegram
		}
	}

	opts := scoring.Options{RainThresholds: cfg.Scoring.Rain, Location: loc}
	a.sched = scheduler.NewScheduler(ctx, col, sender, a.recorder, a.metrics, opts, logger)
	return a, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		logger.Warn().Err(err).Msg("close recorder")
	}
	if err := a.cache.Close(); err != nil {
		logger.Warn().Err(err).Msg("close cache")
	}
}
