// Package scheduler runs the evaluation pipeline on cron schedules and on
// demand from chat commands and the HTTP API.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"DiveScout/internal/metrics"
	"DiveScout/internal/model"
	"DiveScout/internal/notifier"
	"DiveScout/internal/recorder"
	"DiveScout/internal/scoring"
	"DiveScout/internal/tide"
)

// Collector gathers the raw conditions of one cycle.
type Collector interface {
	Collect(ctx context.Context, now time.Time) (*model.Conditions, error)
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// sendRetries is how many times a failed notification is retried.
const sendRetries = 3

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector Collector
	Notifier  Sender // nil disables pushes
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Options   scoring.Options
	Ctx       context.Context
	// Now returns the evaluation instant.
	Now func() time.Time

	logger zerolog.Logger

	mu     sync.RWMutex
	latest *model.Report
}

// NewScheduler creates a new Scheduler. tn and m may be nil; a nil rec
// records nothing.
func NewScheduler(ctx context.Context, col Collector, tn Sender, rec recorder.Recorder, m *metrics.Metrics, opts scoring.Options, logger zerolog.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	var cronOpts []cron.Option
	cronOpts = append(cronOpts, cron.WithSeconds())
	if opts.Location != nil {
		cronOpts = append(cronOpts, cron.WithLocation(opts.Location))
	}
	return &Scheduler{
		Cron:      cron.New(cronOpts...),
		Collector: col,
		Notifier:  tn,
		Recorder:  rec,
		Metrics:   m,
		Options:   opts,
		Ctx:       ctx,
		Now:       time.Now,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the daily report and the periodic refresh.
func (s *Scheduler) RegisterAll(reportCron, refreshCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	if refreshCron != "" {
		if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// Evaluate collects fresh conditions and scores them. Source failures are
// folded into the report; only a cancelled ctx fails the call.
func (s *Scheduler) Evaluate(ctx context.Context) (*model.Report, error) {
	now := s.Now()
	cond, err := s.Collector.Collect(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("collect conditions: %w", err)
	}

	opts := s.Options
	opts.Now = now
	report, err := scoring.Evaluate(cond, opts)
	if err != nil {
		// The tide core was handed invalid input: a bug, not bad data.
		s.logger.Error().Err(err).Msg("evaluation contract violated")
	}

	s.Metrics.ObserveReport(report)
	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()

	s.logger.Info().
		Int("score", report.Result.TotalScore).
		Str("tier", string(report.Result.Tier)).
		Int("warnings", len(report.Result.Warnings)).
		Msg("conditions evaluated")
	return report, nil
}

// Latest returns the most recent report, or nil before the first evaluation.
func (s *Scheduler) Latest() *model.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// TideToday evaluates now and returns the day's tide summary.
func (s *Scheduler) TideToday(ctx context.Context) (*model.DailyTideSummary, error) {
	report, err := s.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	if report.Tide == nil {
		if f, ok := report.Result.Factor(model.FactorTide); ok && !f.IsAvailable() {
			return nil, fmt.Errorf("%w: %s", tide.ErrNoTideData, f.Unavailable)
		}
		return nil, tide.ErrNoTideData
	}
	return report.Tide, nil
}

// History returns up to limit recorded evaluations, newest first.
func (s *Scheduler) History(limit int) ([]recorder.Entry, error) {
	return s.Recorder.ListEvaluations(limit)
}

// RunReportNow evaluates, records and pushes a report immediately.
func (s *Scheduler) RunReportNow() (*model.Report, error) {
	report, err := s.Evaluate(s.Ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Recorder.RecordEvaluation(report); err != nil {
		s.logger.Error().Err(err).Msg("record evaluation")
	}
	s.trySend(notifier.FormatDailyReport(report))
	return report, nil
}

func (s *Scheduler) reportTask() {
	s.logger.Info().Msg("running daily report")
	if _, err := s.RunReportNow(); err != nil {
		s.logger.Error().Err(err).Msg("daily report")
		s.trySend(fmt.Sprintf("❌ Daily report failed: %s", html.EscapeString(err.Error())))
	}
}

// refreshTask keeps the cache, metrics and latest report warm.
func (s *Scheduler) refreshTask() {
	if _, err := s.Evaluate(s.Ctx); err != nil {
		s.logger.Warn().Err(err).Msg("refresh")
	}
}

// historyLimit is how many entries /history shows.
const historyLimit = 7

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	// Group chats address commands as /cmd@BotName.
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch cmd {
	case "/today", "/start":
		report, err := s.Evaluate(ctx)
		if err != nil {
			return fmt.Sprintf("❌ Evaluation failed: %s", html.EscapeString(err.Error()))
		}
		return notifier.FormatDailyReport(report)
	case "/tide":
		summary, err := s.TideToday(ctx)
		if errors.Is(err, tide.ErrNoTideData) {
			return notifier.FormatTide(nil)
		}
		if err != nil {
			return fmt.Sprintf("❌ Tide lookup failed: %s", html.EscapeString(err.Error()))
		}
		return notifier.FormatTide(summary)
	case "/history":
		entries, err := s.History(historyLimit)
		if err != nil {
			s.logger.Error().Err(err).Msg("list history")
			return "❌ History is unavailable right now."
		}
		return notifier.FormatHistory(entries, s.Options.Location)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}
