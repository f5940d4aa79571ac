package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/solobill/solobill/internal/client/domain"
	"github.com/solobill/solobill/internal/clock"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	invoicerepo "github.com/solobill/solobill/internal/invoice/repository"
	"github.com/solobill/solobill/internal/orgcontext"
	"github.com/solobill/solobill/internal/reminder/domain"
	reminderrepo "github.com/solobill/solobill/internal/reminder/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	svc   domain.Service
	orgID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&clientdomain.Client{},
		&invoicedomain.Invoice{},
		&domain.Reminder{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     reminderrepo.Provide(),
		Invoices: invoicerepo.Provide(),
	})

	return &fixture{
		db:    conn,
		node:  node,
		clock: fake,
		svc:   svc,
		orgID: node.Generate(),
	}
}

func (f *fixture) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), f.orgID)
}

func (f *fixture) insertInvoice(t *testing.T, status invoicedomain.InvoiceStatus, dueDate time.Time, policy []string) *invoicedomain.Invoice {
	t.Helper()
	invoice := &invoicedomain.Invoice{
		ID:             f.node.Generate(),
		OrgID:          f.orgID,
		ClientID:       f.node.Generate(),
		Number:         "INV-" + f.node.Generate().String(),
		Amount:         10000,
		Currency:       "EUR",
		Status:         status,
		IssueDate:      dueDate.AddDate(0, 0, -14),
		DueDate:        dueDate,
		ReminderPolicy: datatypes.NewJSONSlice(policy),
		Metadata:       datatypes.JSONMap{},
	}
	require.NoError(t, f.db.Create(invoice).Error)
	return invoice
}

func (f *fixture) reminders(t *testing.T, invoiceID snowflake.ID) []*domain.Reminder {
	t.Helper()
	rows, err := f.svc.ListByInvoice(f.ctx(), invoiceID)
	require.NoError(t, err)
	return rows
}

func TestRegenerate_PlansPolicy(t *testing.T) {
	f := newFixture(t)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusPending,
		time.Date(2025, time.June, 24, 0, 0, 0, 0, time.UTC),
		[]string{"3", "7", "Only on Due date"})

	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))

	rows := f.reminders(t, invoice.ID)
	require.Len(t, rows, 3)

	kinds := map[domain.Kind]bool{}
	for _, row := range rows {
		kinds[row.Kind] = true
		assert.False(t, row.Sent)
	}
	assert.True(t, kinds[domain.KindMinus3])
	assert.True(t, kinds[domain.KindPlus7])
	assert.True(t, kinds[domain.KindOnDue])
}

func TestRegenerate_ReplacesAutomaticRows(t *testing.T) {
	f := newFixture(t)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusPending,
		time.Date(2025, time.June, 24, 0, 0, 0, 0, time.UTC),
		[]string{"3", "7"})

	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))
	require.Len(t, f.reminders(t, invoice.ID), 2)

	invoice.DueDate = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	invoice.ReminderPolicy = datatypes.NewJSONSlice([]string{"Only on Due date"})
	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))

	rows := f.reminders(t, invoice.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.KindOnDue, rows[0].Kind)
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), rows[0].TriggerDate.UTC())
}

func TestRegenerate_PaidInvoiceIsNoOp(t *testing.T) {
	f := newFixture(t)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusPending,
		time.Date(2025, time.June, 24, 0, 0, 0, 0, time.UTC),
		[]string{"3"})

	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))
	before := f.reminders(t, invoice.ID)
	require.Len(t, before, 1)

	// Once paid, regeneration leaves the existing rows untouched.
	invoice.Status = invoicedomain.InvoiceStatusPaid
	invoice.ReminderPolicy = datatypes.NewJSONSlice([]string{"3", "7", "10", "15"})
	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))

	after := f.reminders(t, invoice.ID)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
}

func TestRegenerate_ManualRowsSurvive(t *testing.T) {
	f := newFixture(t)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusOverdue,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		[]string{"3"})

	manual, err := f.svc.RecordManual(f.ctx(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindManual, manual.Kind)
	assert.True(t, manual.Sent)

	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))

	rows := f.reminders(t, invoice.ID)
	require.Len(t, rows, 2)

	var kinds []domain.Kind
	for _, row := range rows {
		kinds = append(kinds, row.Kind)
	}
	assert.Contains(t, kinds, domain.KindManual)
	assert.Contains(t, kinds, domain.KindMinus3)
}

func TestRegenerate_AutomatedAuditRowsSurvive(t *testing.T) {
	f := newFixture(t)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusPending,
		time.Date(2025, time.June, 24, 0, 0, 0, 0, time.UTC),
		[]string{"3"})

	require.NoError(t, f.svc.RecordAutomatedSend(f.ctx(), invoice.ID))

	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))

	rows := f.reminders(t, invoice.ID)
	require.Len(t, rows, 2)

	var kinds []domain.Kind
	for _, row := range rows {
		kinds = append(kinds, row.Kind)
	}
	assert.Contains(t, kinds, domain.KindAutomated)
	assert.Contains(t, kinds, domain.KindMinus3)

	// Audit rows are born sent and never enter the dispatch queue.
	due, err := f.svc.ListDue(f.ctx(), 0)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestListAll_IncludesUpcomingRows(t *testing.T) {
	f := newFixture(t)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusPending,
		time.Date(2025, time.June, 24, 0, 0, 0, 0, time.UTC),
		[]string{"3", "7"})
	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))

	// Nothing has triggered yet, so the dispatch queue is empty.
	due, err := f.svc.ListDue(f.ctx(), 0)
	require.NoError(t, err)
	assert.Empty(t, due)

	// The inspection listing still shows the whole schedule.
	all, err := f.svc.ListAll(f.ctx(), 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC), all[0].TriggerDate.UTC())
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), all[1].TriggerDate.UTC())

	_, err = f.svc.ListAll(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestRegenerate_InvalidInvoice(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.Regenerate(f.ctx(), f.db, nil), domain.ErrInvalidID)
	assert.ErrorIs(t, f.svc.Regenerate(f.ctx(), f.db, &invoicedomain.Invoice{}), domain.ErrInvalidID)
}

func TestRecordManual_UnknownInvoice(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RecordManual(f.ctx(), f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestMarkSent_Idempotent(t *testing.T) {
	f := newFixture(t)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusPending,
		time.Date(2025, time.June, 24, 0, 0, 0, 0, time.UTC),
		[]string{"3"})
	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))

	rows := f.reminders(t, invoice.ID)
	require.Len(t, rows, 1)

	updated, err := f.svc.MarkSent(f.ctx(), rows[0].ID)
	require.NoError(t, err)
	assert.True(t, updated)

	// Second call is a no-op; the send already happened.
	updated, err = f.svc.MarkSent(f.ctx(), rows[0].ID)
	require.NoError(t, err)
	assert.False(t, updated)

	rows = f.reminders(t, invoice.ID)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Sent)
	require.NotNil(t, rows[0].SentAt)
}

func TestDeleteByInvoice_RemovesEverything(t *testing.T) {
	f := newFixture(t)
	invoice := f.insertInvoice(t, invoicedomain.InvoiceStatusOverdue,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		[]string{"3", "7"})
	require.NoError(t, f.svc.Regenerate(f.ctx(), f.db, invoice))
	_, err := f.svc.RecordManual(f.ctx(), invoice.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteByInvoice(f.ctx(), f.db, f.orgID, invoice.ID))
	assert.Empty(t, f.reminders(t, invoice.ID))
}
