package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/solobill/solobill/internal/clock"
	documentdomain "github.com/solobill/solobill/internal/document/domain"
	documentrepo "github.com/solobill/solobill/internal/document/repository"
	expensedomain "github.com/solobill/solobill/internal/expense/domain"
	expenserepo "github.com/solobill/solobill/internal/expense/repository"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	paymentdomain "github.com/solobill/solobill/internal/payment/domain"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/solobill/solobill/internal/providers/email"
	"github.com/solobill/solobill/internal/providers/pdf"
	"github.com/solobill/solobill/internal/report/domain"
	reportrepo "github.com/solobill/solobill/internal/report/repository"
	"github.com/solobill/solobill/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type stubPDF struct{}

func (stubPDF) GenerateInvoice(ctx context.Context, data pdf.InvoiceData) (io.Reader, error) {
	return strings.NewReader("%PDF-1.4 invoice"), nil
}

func (stubPDF) GenerateMonthlyReport(ctx context.Context, data pdf.ReportData) (io.Reader, error) {
	return strings.NewReader("%PDF-1.4 report " + data.Period), nil
}

type mailSpy struct {
	sent []email.Message
}

func (m *mailSpy) Send(ctx context.Context, msg email.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type reportFixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	mail  *mailSpy
	svc   domain.Service
	orgID snowflake.ID
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&invoicedomain.Invoice{},
		&paymentdomain.Payment{},
		&expensedomain.Expense{},
		&documentdomain.Document{},
	))
	require.NoError(t, conn.Exec(
		`CREATE TABLE organizations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			created_at DATETIME,
			updated_at DATETIME
		)`).Error)
	require.NoError(t, seed.EnsureDefaultOrgWithID(conn, 42, "Solo Studio", "owner@solo.test"))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, time.February, 1, 6, 0, 0, 0, time.UTC))
	mail := &mailSpy{}

	blobs, err := blob.NewFilesystem(t.TempDir())
	require.NoError(t, err)

	svc := New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      reportrepo.Provide(),
		Expenses:  expenserepo.Provide(),
		Documents: documentrepo.Provide(),
		PDF:       stubPDF{},
		Blobs:     blobs,
		Email:     mail,
	})

	return &reportFixture{
		db:    conn,
		node:  node,
		mail:  mail,
		svc:   svc,
		orgID: snowflake.ParseInt64(42),
	}
}

func (f *reportFixture) seedActivity(t *testing.T) {
	t.Helper()

	issued := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	invoice := &invoicedomain.Invoice{
		ID:        f.node.Generate(),
		OrgID:     f.orgID,
		ClientID:  f.node.Generate(),
		Number:    "INV-100",
		Amount:    120000,
		Currency:  "EUR",
		Status:    invoicedomain.InvoiceStatusPaid,
		IssueDate: issued,
		DueDate:   issued.AddDate(0, 0, 14),
		Metadata:  datatypes.JSONMap{},
	}
	require.NoError(t, f.db.Create(invoice).Error)

	require.NoError(t, f.db.Create(&paymentdomain.Payment{
		ID:        f.node.Generate(),
		OrgID:     f.orgID,
		InvoiceID: invoice.ID,
		Amount:    120000,
		Currency:  "EUR",
		PaidAt:    time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
	}).Error)

	require.NoError(t, f.db.Create(&expensedomain.Expense{
		ID:          f.node.Generate(),
		OrgID:       f.orgID,
		Description: "Hosting",
		Amount:      2500,
		Currency:    "EUR",
		Category:    "infrastructure",
		ExpenseDate: time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
	}).Error)
}

func TestGenerateMonthly_CreatesReportDocument(t *testing.T) {
	f := newReportFixture(t)
	f.seedActivity(t)

	result, err := f.svc.GenerateMonthly(context.Background(), domain.GenerateMonthlyRequest{
		OrgID: f.orgID,
		Year:  2025,
		Month: time.January,
	})
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.NotZero(t, result.DocumentID)

	var doc documentdomain.Document
	require.NoError(t, f.db.First(&doc, "id = ?", result.DocumentID).Error)
	assert.Equal(t, "report-2025-01.pdf", doc.Name)
	assert.Equal(t, documentdomain.KindReport, doc.Kind)

	// The owner gets the report by mail as well.
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, []string{"owner@solo.test"}, f.mail.sent[0].To)
}

func TestGenerateMonthly_Idempotent(t *testing.T) {
	f := newReportFixture(t)
	f.seedActivity(t)

	first, err := f.svc.GenerateMonthly(context.Background(), domain.GenerateMonthlyRequest{
		OrgID: f.orgID,
		Year:  2025,
		Month: time.January,
	})
	require.NoError(t, err)

	second, err := f.svc.GenerateMonthly(context.Background(), domain.GenerateMonthlyRequest{
		OrgID: f.orgID,
		Year:  2025,
		Month: time.January,
	})
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.DocumentID, second.DocumentID)

	var count int64
	require.NoError(t, f.db.Model(&documentdomain.Document{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateMonthly_InvalidPeriod(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.GenerateMonthly(context.Background(), domain.GenerateMonthlyRequest{
		OrgID: f.orgID,
		Year:  1995,
		Month: time.January,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = f.svc.GenerateMonthly(context.Background(), domain.GenerateMonthlyRequest{
		OrgID: f.orgID,
		Year:  2025,
		Month: time.Month(13),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestGenerateMonthly_UnknownOrganization(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.GenerateMonthly(context.Background(), domain.GenerateMonthlyRequest{
		OrgID: f.node.Generate(),
		Year:  2025,
		Month: time.January,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestGenerateAll_WalksEveryOrganization(t *testing.T) {
	f := newReportFixture(t)
	f.seedActivity(t)

	generated, err := f.svc.GenerateAll(context.Background(), 2025, time.January)
	require.NoError(t, err)
	assert.Equal(t, 1, generated)

	// Second run finds the existing documents and generates nothing.
	generated, err = f.svc.GenerateAll(context.Background(), 2025, time.January)
	require.NoError(t, err)
	assert.Zero(t, generated)
}
