// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-engine/services"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	cron       *cron.Cron
	completion services.CompletionService
	schedule   string
	logger     *slog.Logger
}

// NewScheduler accepts standard five-field cron specs and descriptors such as "@every 1m".
func NewScheduler(completion services.CompletionService, schedule string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{
		cron:       c,
		completion: completion,
		schedule:   schedule,
		logger:     logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runReconciliation); err != nil {
		return fmt.Errorf("failed to schedule completion reconciliation %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("Cron scheduler started", slog.String("reconcile_schedule", s.schedule))
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Cron scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Cron scheduler stop timed out")
	}
}

func (s *Scheduler) runReconciliation() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.Reconcile(ctx)
}

// Reconcile finishes every in-progress tournament whose final is already decided.
// It returns how many tournaments it finished.
func (s *Scheduler) Reconcile(ctx context.Context) int {
	ids, err := s.completion.ListInProgress(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Reconciliation: failed to list tournaments", slog.Any("error", err))
		return 0
	}

	finished := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			s.logger.WarnContext(ctx, "Reconciliation: stopped early", slog.Any("error", ctx.Err()))
			break
		}
		res, err := s.completion.CheckCompletion(ctx, id)
		switch {
		case errors.Is(err, services.ErrTournamentBusy):
			s.logger.DebugContext(ctx, "Reconciliation: tournament busy, skipping", slog.Int("tournament_id", id))
		case err != nil:
			s.logger.ErrorContext(ctx, "Reconciliation: check failed", slog.Int("tournament_id", id), slog.Any("error", err))
		case res.Completed:
			finished++
			s.logger.InfoContext(ctx, "Reconciliation: tournament finished", slog.Int("tournament_id", id))
		}
	}
	if len(ids) > 0 {
		s.logger.DebugContext(ctx, "Reconciliation run complete", slog.Int("checked", len(ids)), slog.Int("finished", finished))
	}
	return finished
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
