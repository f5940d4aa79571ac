package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	paymentdomain "github.com/solobill/solobill/internal/payment/domain"
	"gorm.io/gorm"
)

type Repository interface {
	ListOrganizations(ctx context.Context, db *gorm.DB) ([]*Organization, error)
	FindOrganization(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*Organization, error)
	// FindReportDocument returns the id of an existing report document with
	// the given name, or zero when none exists.
	FindReportDocument(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (snowflake.ID, error)
	ListInvoicesIssued(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time) ([]*invoicedomain.Invoice, error)
	ListPaymentsReceived(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time) ([]*paymentdomain.Payment, error)
}
