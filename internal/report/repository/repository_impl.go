package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/solobill/solobill/internal/document/domain"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	paymentdomain "github.com/solobill/solobill/internal/payment/domain"
	"github.com/solobill/solobill/internal/report/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListOrganizations(ctx context.Context, db *gorm.DB) ([]*domain.Organization, error) {
	var orgs []*domain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email FROM organizations ORDER BY id ASC`,
	).Scan(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repo) FindOrganization(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email FROM organizations WHERE id = ?`,
		orgID,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repo) FindReportDocument(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (snowflake.ID, error) {
	var id snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM documents WHERE org_id = ? AND kind = ? AND name = ?`,
		orgID,
		documentdomain.KindReport,
		name,
	).Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) ListInvoicesIssued(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time) ([]*invoicedomain.Invoice, error) {
	var invoices []*invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, client_id, number, amount, currency, status, issue_date, due_date,
		        reminder_policy, file_document_id, sent_at, paid_at, metadata, created_at, updated_at
		 FROM invoices WHERE org_id = ? AND issue_date >= ? AND issue_date < ?
		 ORDER BY issue_date ASC, id ASC`,
		orgID,
		from,
		to,
	).Scan(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) ListPaymentsReceived(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time) ([]*paymentdomain.Payment, error) {
	var payments []*paymentdomain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, invoice_id, amount, currency, method, note, paid_at, created_at
		 FROM payments WHERE org_id = ? AND paid_at >= ? AND paid_at < ?
		 ORDER BY paid_at ASC, id ASC`,
		orgID,
		from,
		to,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
