// Package scheduler runs the periodic jobs: reminder dispatch, the overdue
// sweep and monthly report generation.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/clock"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"github.com/solobill/solobill/internal/observability/metrics"
	reminderdomain "github.com/solobill/solobill/internal/reminder/domain"
	reportdomain "github.com/solobill/solobill/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dispatchLockKey = "solobill:jobs:dispatch_reminders"

var ErrInvalidConfig = errors.New("scheduler_invalid_config")

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	InvoiceSvc invoicedomain.Service
	Dispatcher reminderdomain.Dispatcher
	ReportSvc  reportdomain.Service
	Lock       RunLock
	Config     Config `optional:"true"`
}

type Scheduler struct {
	db         *gorm.DB
	log        *zap.Logger
	cfg        Config
	genID      *snowflake.Node
	clock      clock.Clock
	invoiceSvc invoicedomain.Service
	dispatcher reminderdomain.Dispatcher
	reportSvc  reportdomain.Service
	lock       RunLock
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.GenID == nil || p.Clock == nil ||
		p.InvoiceSvc == nil || p.Dispatcher == nil || p.ReportSvc == nil || p.Lock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:         p.DB,
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		genID:      p.GenID,
		clock:      p.Clock,
		invoiceSvc: p.InvoiceSvc,
		dispatcher: p.Dispatcher,
		reportSvc:  p.ReportSvc,
		lock:       p.Lock,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	batchSize int,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, run, owner := s.ensureJobRun(ctx, name, batchSize)
	if owner {
		s.logJobStart(ctx, run)
	}
	log := s.logger(ctx).With(
		zap.String("job", name),
		zap.String("run_id", run.runID),
	)
	dispatchMetrics := metrics.Dispatch()
	dispatchMetrics.IncJobRun(name)

	err := fn(ctx)
	dispatchMetrics.ObserveJobDuration(name, time.Since(start))
	if owner {
		if err != nil && run != nil && run.errorCount == 0 {
			run.IncError()
		}
		s.logJobFinish(ctx, run)
	}
	if err == nil {
		return nil
	}

	// A deadline on the job budget is a soft timeout; the next tick picks
	// the remaining work back up.
	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		dispatchMetrics.IncJobTimeout(name)
	}
	dispatchMetrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name    string
		Enabled bool
		Run     func(context.Context) error
	}{
		{"refresh_overdue", s.isJobEnabled("refresh_overdue"), func(ctx context.Context) error {
			return s.runJob(ctx, "refresh_overdue", s.cfg.BatchSize, 30*time.Second, s.RefreshOverdueJob)
		}},
		{"dispatch_reminders", s.isJobEnabled("dispatch_reminders"), func(ctx context.Context) error {
			return s.runJob(ctx, "dispatch_reminders", s.cfg.BatchSize, s.dispatchBudget(), s.DispatchRemindersJob)
		}},
		{"monthly_reports", s.cfg.MonthlyReports && s.isJobEnabled("monthly_reports"), func(ctx context.Context) error {
			return s.runJob(ctx, "monthly_reports", s.cfg.BatchSize, 10*time.Minute, s.MonthlyReportsJob)
		}},
	}

	for _, job := range jobs {
		if job.Enabled {
			err = errors.Join(err, job.Run(parent))
		}
	}

	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	dispatchMetrics := metrics.Dispatch()

	for {
		runLag := time.Since(nextRun)
		if runLag > 0 {
			dispatchMetrics.ObserveRunLoopLag(runLag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// Empty EnabledJobs means every job runs (monolith mode).
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// dispatchBudget sizes the job timeout so a full batch of slow sends still
// fits, with a floor for small batches.
func (s *Scheduler) dispatchBudget() time.Duration {
	budget := time.Duration(s.cfg.BatchSize) * s.cfg.SendTimeout
	if budget < time.Minute {
		budget = time.Minute
	}
	return budget
}

// RefreshOverdueJob flips pending invoices whose due date has passed.
func (s *Scheduler) RefreshOverdueJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, "refresh_overdue", s.cfg.BatchSize)
	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}

	updated, err := s.invoiceSvc.RefreshOverdue(ctx)
	if err != nil {
		run.IncError()
		return err
	}
	run.AddProcessed(int(updated))
	return nil
}

// DispatchRemindersJob sends every due reminder. The run lock guarantees a
// single concurrent dispatcher across scheduler instances; a held lock skips
// the tick entirely.
func (s *Scheduler) DispatchRemindersJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, "dispatch_reminders", s.cfg.BatchSize)
	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}

	release, acquired, err := s.lock.TryAcquire(ctx, dispatchLockKey, s.dispatchBudget())
	if err != nil {
		run.IncError()
		return err
	}
	if !acquired {
		metrics.Dispatch().IncJobSkippedLockHeld("dispatch_reminders")
		s.logger(ctx).Info("dispatch lock held, skipping run",
			zap.String("lock_key", dispatchLockKey),
		)
		return nil
	}
	defer release()

	summary, err := s.dispatcher.ProcessDue(ctx, s.cfg.BatchSize)
	run.AddProcessed(summary.Processed)
	for range summary.Errors {
		run.IncError()
	}
	if err != nil {
		return err
	}

	s.logger(ctx).Info("dispatch pass complete",
		zap.Int("processed", summary.Processed),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped_paid", summary.SkippedPaid),
	)
	return nil
}

// MonthlyReportsJob generates the previous month's report for every org.
// Generation is idempotent, so running on every tick only costs one lookup
// per org once the reports exist.
func (s *Scheduler) MonthlyReportsJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, "monthly_reports", s.cfg.BatchSize)
	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}

	now := s.clock.Now()
	previous := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	generated, err := s.reportSvc.GenerateAll(ctx, previous.Year(), previous.Month())
	run.AddProcessed(generated)
	if err != nil {
		run.IncError()
		return err
	}
	return nil
}
