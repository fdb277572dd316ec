package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/robfig/cron/v3"
)

const defaultJobTimeout = 10 * time.Minute

// Scheduler runs periodic ledger reconciliation.
type Scheduler struct {
	cron       *cron.Cron
	statement  portssvc.StatementSvc
	logger     *slog.Logger
	schedule   string
	batchSize  int
	jobTimeout time.Duration
}

// NewScheduler creates a scheduler. schedule uses the standard five-field
// cron syntax or descriptors such as "@hourly".
func NewScheduler(statement portssvc.StatementSvc, logger *slog.Logger, schedule string, batchSize int) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:       c,
		statement:  statement,
		logger:     logger,
		schedule:   schedule,
		batchSize:  batchSize,
		jobTimeout: defaultJobTimeout,
	}
}

// Start registers the reconciliation job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.ReconcileJob); err != nil {
		s.logger.Error("failed to schedule reconciliation job", "schedule", s.schedule, "error", err)
		return err
	}
	s.logger.Info("scheduled reconciliation job", "schedule", s.schedule)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// ReconcileJob reconciles every account and logs accounts whose ledger drifted.
func (s *Scheduler) ReconcileJob() {
	ctx, cancel := context.WithTimeout(middleware.WithLogger(context.Background(), s.logger.With("job", "reconcile")), s.jobTimeout)
	defer cancel()

	start := time.Now()
	summary, err := s.statement.ReconcileAll(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("reconciliation run aborted", "error", err)
	}
	if summary == nil {
		return
	}
	for _, id := range summary.DriftedAccounts {
		s.logger.Warn("ledger drift detected", "account_id", id)
	}
	s.logger.Info("reconciliation run finished",
		"checked", summary.Checked,
		"drifted", summary.Drifted,
		"failed", summary.Failed,
		"duration", time.Since(start))
}
