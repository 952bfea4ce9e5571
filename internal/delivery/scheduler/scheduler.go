// Package scheduler runs the periodic maintenance jobs of the API process.
package scheduler

import (
	"context"
	"log/slog"

	"bloodlink/config"
	"bloodlink/internal/delivery"
	"bloodlink/internal/usecase"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// Params holds dependencies for the scheduler, injected by Fx.
type Params struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	Logger   *slog.Logger
	CampUC   usecase.CampUsecase
	IntakeUC usecase.IntakeUsecase
}

type scheduler struct {
	enabled  bool
	cron     *cron.Cron
	logger   *slog.Logger
	campUC   usecase.CampUsecase
	intakeUC usecase.IntakeUsecase
}

// New registers the camp archival and chat session sweep jobs.
func New(params Params) (delivery.Delivery, error) {
	cronLogger := cronLogger{logger: params.Logger}
	s := &scheduler{
		enabled: params.Cfg.Scheduler.Enabled,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger:   params.Logger,
		campUC:   params.CampUC,
		intakeUC: params.IntakeUC,
	}

	if _, err := s.cron.AddFunc(params.Cfg.Scheduler.CampArchiveSpec, s.archiveCamps); err != nil {
		return nil, errors.Wrap(err, "invalid camp archive schedule")
	}
	if _, err := s.cron.AddFunc(params.Cfg.Scheduler.SessionSweepSpec, s.sweepSessions); err != nil {
		return nil, errors.Wrap(err, "invalid session sweep schedule")
	}

	params.Lc.Append(fx.Hook{
		OnStop: s.stop,
	})

	return s, nil
}

// Serve starts the cron loop in the background and returns.
func (s *scheduler) Serve(_ context.Context) error {
	if !s.enabled {
		s.logger.Info("Scheduler disabled")

		return nil
	}

	s.logger.Info("Starting scheduler", slog.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()

	return nil
}

// stop waits for running jobs, bounded by the shutdown context.
func (s *scheduler) stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

func (s *scheduler) archiveCamps() {
	archived, err := s.campUC.ArchiveStaleCamps(context.Background())
	if err != nil {
		s.logger.Error("Camp archival failed", slog.Any("error", err))

		return
	}

	s.logger.Info("Camp archival finished", slog.Int("archived", archived))
}

func (s *scheduler) sweepSessions() {
	if expired := s.intakeUC.ExpireIdleSessions(context.Background()); expired > 0 {
		s.logger.Info("Expired idle chat sessions", slog.Int("expired", expired))
	}
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("[cron] "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("[cron] "+msg, append(keysAndValues, slog.Any("error", err))...)
}
