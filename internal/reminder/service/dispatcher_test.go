package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/solobill/solobill/internal/client/domain"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/config"
	documentdomain "github.com/solobill/solobill/internal/document/domain"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"github.com/solobill/solobill/internal/mailtemplate"
	"github.com/solobill/solobill/internal/observability/metrics"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/solobill/solobill/internal/providers/email"
	"github.com/solobill/solobill/internal/reminder/domain"
	reminderrepo "github.com/solobill/solobill/internal/reminder/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type capturingProvider struct {
	sent []email.Message
	fail error
}

func (p *capturingProvider) Send(ctx context.Context, msg email.Message) error {
	if p.fail != nil {
		return p.fail
	}
	p.sent = append(p.sent, msg)
	return nil
}

type dispatchFixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	provider *capturingProvider
	disp     domain.Dispatcher
	orgID    snowflake.ID
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	metrics.ResetDispatchMetricsForTest()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&clientdomain.Client{},
		&invoicedomain.Invoice{},
		&documentdomain.Document{},
		&domain.Reminder{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC))
	provider := &capturingProvider{}

	builder, err := mailtemplate.NewBuilder()
	require.NoError(t, err)

	blobs, err := blob.NewFilesystem(t.TempDir())
	require.NoError(t, err)

	disp := NewDispatcher(DispatcherParams{
		DB:    conn,
		Log:   zap.NewNop(),
		Clock: fake,
		Cfg: config.Config{
			CompanyName: "Solo Studio",
			Scheduler:   config.SchedulerConfig{SendTimeout: 5 * time.Second},
		},
		Repo:  reminderrepo.Provide(),
		Mail:  builder,
		Email: provider,
		Blobs: blobs,
	})

	return &dispatchFixture{
		db:       conn,
		node:     node,
		clock:    fake,
		provider: provider,
		disp:     disp,
		orgID:    node.Generate(),
	}
}

func (f *dispatchFixture) seedDue(t *testing.T, status invoicedomain.InvoiceStatus, clientEmail string) *domain.Reminder {
	t.Helper()

	client := &clientdomain.Client{
		ID:       f.node.Generate(),
		OrgID:    f.orgID,
		Name:     "Acme GmbH",
		Email:    clientEmail,
		Metadata: datatypes.JSONMap{},
	}
	require.NoError(t, f.db.Create(client).Error)

	dueDate := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	invoice := &invoicedomain.Invoice{
		ID:        f.node.Generate(),
		OrgID:     f.orgID,
		ClientID:  client.ID,
		Number:    "INV-" + f.node.Generate().String(),
		Amount:    250000,
		Currency:  "EUR",
		Status:    status,
		IssueDate: dueDate.AddDate(0, 0, -14),
		DueDate:   dueDate,
		Metadata:  datatypes.JSONMap{},
	}
	require.NoError(t, f.db.Create(invoice).Error)

	reminder := &domain.Reminder{
		ID:          f.node.Generate(),
		OrgID:       f.orgID,
		InvoiceID:   invoice.ID,
		Kind:        domain.KindPlus7,
		TriggerDate: dueDate.AddDate(0, 0, 7),
		Sent:        false,
	}
	require.NoError(t, f.db.Create(reminder).Error)
	return reminder
}

func (f *dispatchFixture) reload(t *testing.T, id snowflake.ID) *domain.Reminder {
	t.Helper()
	var row domain.Reminder
	require.NoError(t, f.db.First(&row, "id = ?", id).Error)
	return &row
}

func TestProcessDue_SendsAndMarksSent(t *testing.T) {
	f := newDispatchFixture(t)
	reminder := f.seedDue(t, invoicedomain.InvoiceStatusOverdue, "billing@acme.test")

	summary, err := f.disp.ProcessDue(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Sent)
	assert.Zero(t, summary.Failed)
	assert.Zero(t, summary.SkippedPaid)

	require.Len(t, f.provider.sent, 1)
	msg := f.provider.sent[0]
	assert.Equal(t, []string{"billing@acme.test"}, msg.To)
	assert.Contains(t, msg.Subject, "reminder")
	assert.Contains(t, msg.Text, "2500.00")

	assert.True(t, f.reload(t, reminder.ID).Sent)
}

func TestProcessDue_RetiresPaidWithoutSending(t *testing.T) {
	f := newDispatchFixture(t)
	reminder := f.seedDue(t, invoicedomain.InvoiceStatusPaid, "billing@acme.test")

	summary, err := f.disp.ProcessDue(context.Background(), 10)
	require.NoError(t, err)

	// Retired rows do not count as processed work.
	assert.Zero(t, summary.Processed)
	assert.Zero(t, summary.Sent)
	assert.Equal(t, 1, summary.SkippedPaid)
	assert.Empty(t, f.provider.sent)

	assert.True(t, f.reload(t, reminder.ID).Sent)
}

func TestProcessDue_MissingEmailFailsAndStaysUnsent(t *testing.T) {
	f := newDispatchFixture(t)
	reminder := f.seedDue(t, invoicedomain.InvoiceStatusOverdue, "")

	summary, err := f.disp.ProcessDue(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Empty(t, f.provider.sent)

	// The row stays unsent so the next pass retries it.
	assert.False(t, f.reload(t, reminder.ID).Sent)
}

func TestProcessDue_ProviderFailureRetriedNextPass(t *testing.T) {
	f := newDispatchFixture(t)
	reminder := f.seedDue(t, invoicedomain.InvoiceStatusOverdue, "billing@acme.test")

	f.provider.fail = errors.New("smtp unavailable")
	summary, err := f.disp.ProcessDue(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, f.reload(t, reminder.ID).Sent)

	f.provider.fail = nil
	summary, err = f.disp.ProcessDue(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
	assert.True(t, f.reload(t, reminder.ID).Sent)
}

func TestProcessDue_IgnoresFutureTriggerDates(t *testing.T) {
	f := newDispatchFixture(t)
	f.seedDue(t, invoicedomain.InvoiceStatusOverdue, "billing@acme.test")

	// Rewind to before the trigger date; nothing is due yet.
	f.clock.Set(time.Date(2025, time.June, 5, 9, 0, 0, 0, time.UTC))

	summary, err := f.disp.ProcessDue(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, summary.Processed)
	assert.Empty(t, f.provider.sent)
}

func TestProcessDue_CancelledContextStopsWalk(t *testing.T) {
	f := newDispatchFixture(t)
	f.seedDue(t, invoicedomain.InvoiceStatusOverdue, "billing@acme.test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.disp.ProcessDue(ctx, 10)
	assert.Error(t, err)
}
