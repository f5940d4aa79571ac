package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/solobill/solobill/internal/clock"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"github.com/solobill/solobill/internal/observability/metrics"
	reminderdomain "github.com/solobill/solobill/internal/reminder/domain"
	reportdomain "github.com/solobill/solobill/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeInvoiceService struct {
	invoicedomain.Service

	refreshCalls   int
	refreshUpdated int64
}

func (f *fakeInvoiceService) RefreshOverdue(ctx context.Context) (int64, error) {
	f.refreshCalls++
	return f.refreshUpdated, nil
}

type fakeDispatcher struct {
	calls   int
	limit   int
	summary reminderdomain.DispatchSummary
	err     error
}

func (f *fakeDispatcher) ProcessDue(ctx context.Context, limit int) (reminderdomain.DispatchSummary, error) {
	f.calls++
	f.limit = limit
	return f.summary, f.err
}

type fakeReportService struct {
	calls int
	year  int
	month time.Month
}

func (f *fakeReportService) GenerateMonthly(ctx context.Context, req reportdomain.GenerateMonthlyRequest) (reportdomain.Result, error) {
	return reportdomain.Result{}, nil
}

func (f *fakeReportService) GenerateAll(ctx context.Context, year int, month time.Month) (int, error) {
	f.calls++
	f.year = year
	f.month = month
	return 1, nil
}

type schedulerFixture struct {
	sched      *Scheduler
	invoiceSvc *fakeInvoiceService
	dispatcher *fakeDispatcher
	reportSvc  *fakeReportService
	clock      *clock.FakeClock
	lock       RunLock
}

func newScheduler(t *testing.T, cfg Config) *schedulerFixture {
	t.Helper()
	metrics.ResetDispatchMetricsForTest()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC))
	invoiceSvc := &fakeInvoiceService{refreshUpdated: 2}
	dispatcher := &fakeDispatcher{}
	reportSvc := &fakeReportService{}
	lock := newProcessLock()

	sched, err := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fake,
		InvoiceSvc: invoiceSvc,
		Dispatcher: dispatcher,
		ReportSvc:  reportSvc,
		Lock:       lock,
		Config:     cfg,
	})
	require.NoError(t, err)

	return &schedulerFixture{
		sched:      sched,
		invoiceSvc: invoiceSvc,
		dispatcher: dispatcher,
		reportSvc:  reportSvc,
		clock:      fake,
		lock:       lock,
	}
}

func TestNew_RejectsMissingDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunOnce_RunsEnabledJobs(t *testing.T) {
	f := newScheduler(t, Config{BatchSize: 25})

	require.NoError(t, f.sched.RunOnce(context.Background()))

	assert.Equal(t, 1, f.invoiceSvc.refreshCalls)
	assert.Equal(t, 1, f.dispatcher.calls)
	assert.Equal(t, 25, f.dispatcher.limit)
	// Monthly reports stay off unless the config turns them on.
	assert.Zero(t, f.reportSvc.calls)
}

func TestRunOnce_RespectsEnabledJobsFilter(t *testing.T) {
	f := newScheduler(t, Config{EnabledJobs: []string{"dispatch_reminders"}})

	require.NoError(t, f.sched.RunOnce(context.Background()))

	assert.Zero(t, f.invoiceSvc.refreshCalls)
	assert.Equal(t, 1, f.dispatcher.calls)
}

func TestDispatchRemindersJob_SkipsWhenLockHeld(t *testing.T) {
	f := newScheduler(t, Config{})

	release, acquired, err := f.lock.TryAcquire(context.Background(), dispatchLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
	defer release()

	require.NoError(t, f.sched.DispatchRemindersJob(context.Background()))
	assert.Zero(t, f.dispatcher.calls)
}

func TestDispatchRemindersJob_ReleasesLock(t *testing.T) {
	f := newScheduler(t, Config{})

	require.NoError(t, f.sched.DispatchRemindersJob(context.Background()))
	assert.Equal(t, 1, f.dispatcher.calls)

	// The lock must be free again for the next tick.
	release, acquired, err := f.lock.TryAcquire(context.Background(), dispatchLockKey, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
	release()
}

func TestMonthlyReportsJob_TargetsPreviousMonth(t *testing.T) {
	f := newScheduler(t, Config{MonthlyReports: true})
	f.clock.Set(time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC))

	require.NoError(t, f.sched.MonthlyReportsJob(context.Background()))

	assert.Equal(t, 1, f.reportSvc.calls)
	assert.Equal(t, 2024, f.reportSvc.year)
	assert.Equal(t, time.December, f.reportSvc.month)
}

func TestRunJob_SoftTimeoutIsNotAnError(t *testing.T) {
	f := newScheduler(t, Config{})

	err := f.sched.runJob(context.Background(), "slow_job", 10, time.Minute, func(ctx context.Context) error {
		return context.DeadlineExceeded
	})
	assert.NoError(t, err)
}

func TestRunJob_WrapsRealErrors(t *testing.T) {
	f := newScheduler(t, Config{})

	err := f.sched.runJob(context.Background(), "broken_job", 10, time.Minute, func(ctx context.Context) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "broken_job")
}

func TestProcessLock_Exclusive(t *testing.T) {
	lock := newProcessLock()

	release, acquired, err := lock.TryAcquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	_, again, err := lock.TryAcquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	release()

	release2, reacquired, err := lock.TryAcquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, reacquired)
	release2()
}

func TestDispatchBudget(t *testing.T) {
	f := newScheduler(t, Config{BatchSize: 100, SendTimeout: 30 * time.Second})
	assert.Equal(t, 50*time.Minute, f.sched.dispatchBudget())

	small := newScheduler(t, Config{BatchSize: 1, SendTimeout: time.Second})
	assert.Equal(t, time.Minute, small.sched.dispatchBudget())
}
