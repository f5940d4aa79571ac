package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	Status   InvoiceStatus
	ClientID snowflake.ID
	DueFrom  *time.Time
	DueTo    *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, status InvoiceStatus, paidAt *time.Time, now time.Time) error
	// MarkOverdue applies the due-date sweep: pending rows with due_date
	// before today become overdue. Returns the number of rows updated.
	MarkOverdue(ctx context.Context, db *gorm.DB, today, now time.Time) (int64, error)
	MarkSent(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, now time.Time) error
}
