package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/clock"
	documentdomain "github.com/solobill/solobill/internal/document/domain"
	expensedomain "github.com/solobill/solobill/internal/expense/domain"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/solobill/solobill/internal/providers/email"
	"github.com/solobill/solobill/internal/providers/pdf"
	"github.com/solobill/solobill/internal/report/domain"
	"github.com/solobill/solobill/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Expenses  expensedomain.Repository
	Documents documentdomain.Repository
	PDF       pdf.Provider
	Blobs     blob.Store
	Email     email.Provider
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	expenses  expensedomain.Repository
	documents documentdomain.Repository
	pdf       pdf.Provider
	blobs     blob.Store
	email     email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("report.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		expenses:  p.Expenses,
		documents: p.Documents,
		pdf:       p.PDF,
		blobs:     p.Blobs,
		email:     p.Email,
	}
}

func (s *Service) GenerateMonthly(ctx context.Context, req domain.GenerateMonthlyRequest) (domain.Result, error) {
	if req.OrgID == 0 {
		return domain.Result{}, domain.ErrInvalidOrganization
	}
	if req.Year < 2000 || req.Month < time.January || req.Month > time.December {
		return domain.Result{}, domain.ErrInvalidPeriod
	}

	org, err := s.repo.FindOrganization(ctx, s.db, req.OrgID)
	if err != nil {
		return domain.Result{}, err
	}
	if org == nil {
		return domain.Result{}, domain.ErrInvalidOrganization
	}

	period := fmt.Sprintf("%04d-%02d", req.Year, int(req.Month))
	name := "report-" + period + ".pdf"

	existing, err := s.repo.FindReportDocument(ctx, s.db, org.ID, name)
	if err != nil {
		return domain.Result{}, err
	}
	if existing != 0 {
		return domain.Result{DocumentID: existing, Skipped: true}, nil
	}

	from := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	data, err := s.gather(ctx, org, period, from, to)
	if err != nil {
		return domain.Result{}, err
	}

	rendered, err := s.pdf.GenerateMonthlyReport(ctx, data)
	if err != nil {
		return domain.Result{}, err
	}
	content, err := io.ReadAll(rendered)
	if err != nil {
		return domain.Result{}, err
	}

	key, size, err := s.blobs.Put(ctx, bytes.NewReader(content))
	if err != nil {
		return domain.Result{}, err
	}

	now := s.clock.Now()
	document := documentdomain.Document{
		ID:          s.genID.Generate(),
		OrgID:       org.ID,
		Name:        name,
		Kind:        documentdomain.KindReport,
		ContentType: "application/pdf",
		SizeBytes:   size,
		BlobKey:     key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.documents.Insert(ctx, s.db, &document); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Warn("delete orphan report blob", zap.String("blob_key", key), zap.Error(delErr))
		}
		return domain.Result{}, err
	}

	s.deliver(ctx, org, period, name, content)

	s.log.Info("monthly report generated",
		zap.String("org_id", org.ID.String()),
		zap.String("period", period),
		zap.String("document_id", document.ID.String()),
	)
	return domain.Result{DocumentID: document.ID}, nil
}

func (s *Service) GenerateAll(ctx context.Context, year int, month time.Month) (int, error) {
	orgs, err := s.repo.ListOrganizations(ctx, s.db)
	if err != nil {
		return 0, err
	}

	generated := 0
	for _, org := range orgs {
		if err := ctx.Err(); err != nil {
			return generated, err
		}
		result, err := s.GenerateMonthly(ctx, domain.GenerateMonthlyRequest{
			OrgID: org.ID,
			Year:  year,
			Month: month,
		})
		if err != nil {
			s.log.Error("generate monthly report",
				zap.String("org_id", org.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if !result.Skipped {
			generated++
		}
	}
	return generated, nil
}

func (s *Service) gather(ctx context.Context, org *domain.Organization, period string, from, to time.Time) (pdf.ReportData, error) {
	invoices, err := s.repo.ListInvoicesIssued(ctx, s.db, org.ID, from, to)
	if err != nil {
		return pdf.ReportData{}, err
	}
	payments, err := s.repo.ListPaymentsReceived(ctx, s.db, org.ID, from, to)
	if err != nil {
		return pdf.ReportData{}, err
	}
	expenses, err := s.expenses.ListByRange(ctx, s.db, org.ID, from, to)
	if err != nil {
		return pdf.ReportData{}, err
	}

	type totals struct {
		invoiced int64
		paid     int64
		expenses int64
	}
	byCurrency := map[string]*totals{}
	bucket := func(currency string) *totals {
		t, ok := byCurrency[currency]
		if !ok {
			t = &totals{}
			byCurrency[currency] = t
		}
		return t
	}

	data := pdf.ReportData{
		CompanyName: org.Name,
		Period:      period,
	}
	for _, invoice := range invoices {
		bucket(invoice.Currency).invoiced += invoice.Amount
		data.Invoices = append(data.Invoices, pdf.ReportLine{
			Label:  "Invoice " + invoice.Number,
			Date:   invoice.IssueDate.Format("2006-01-02"),
			Amount: money.FormatWithCurrency(invoice.Amount, invoice.Currency),
		})
	}
	for _, payment := range payments {
		bucket(payment.Currency).paid += payment.Amount
		label := "Payment"
		if payment.Method != "" {
			label = "Payment (" + payment.Method + ")"
		}
		data.Payments = append(data.Payments, pdf.ReportLine{
			Label:  label,
			Date:   payment.PaidAt.Format("2006-01-02"),
			Amount: money.FormatWithCurrency(payment.Amount, payment.Currency),
		})
	}
	for _, expense := range expenses {
		bucket(expense.Currency).expenses += expense.Amount
		label := expense.Description
		if label == "" {
			label = expense.Category
		}
		if label == "" {
			label = "Expense"
		}
		data.Expenses = append(data.Expenses, pdf.ReportLine{
			Label:  label,
			Date:   expense.ExpenseDate.Format("2006-01-02"),
			Amount: money.FormatWithCurrency(expense.Amount, expense.Currency),
		})
	}

	currencies := make([]string, 0, len(byCurrency))
	for currency := range byCurrency {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	for _, currency := range currencies {
		t := byCurrency[currency]
		data.Totals = append(data.Totals, pdf.ReportTotal{
			Currency: currency,
			Invoiced: money.Format(t.invoiced),
			Paid:     money.Format(t.paid),
			Expenses: money.Format(t.expenses),
		})
	}

	return data, nil
}

// deliver mails the report to the org owner. Delivery is best effort; the
// document is already stored and downloadable.
func (s *Service) deliver(ctx context.Context, org *domain.Organization, period, name string, content []byte) {
	if org.Email == "" {
		return
	}

	err := s.email.Send(ctx, email.Message{
		To:      []string{org.Email},
		Subject: fmt.Sprintf("Monthly report %s for %s", period, org.Name),
		Text:    fmt.Sprintf("Attached is the %s report for %s.", period, org.Name),
		HTML:    fmt.Sprintf("<p>Attached is the %s report for %s.</p>", period, org.Name),
		Attachments: []email.Attachment{{
			Filename:    name,
			ContentType: "application/pdf",
			Data:        content,
		}},
	})
	if err != nil {
		s.log.Warn("mail monthly report",
			zap.String("org_id", org.ID.String()),
			zap.String("period", period),
			zap.Error(err),
		)
	}
}
