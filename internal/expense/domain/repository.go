package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListExpenseFilter struct {
	VendorID snowflake.ID
	Category string
	DateFrom *time.Time
	DateTo   *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, expense *Expense) error
	Update(ctx context.Context, db *gorm.DB, expense *Expense) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListExpenseFilter, page pagination.Pagination) ([]*Expense, error)
	// ListByRange returns every expense with expense_date in [from, to),
	// oldest first. Used by the monthly report.
	ListByRange(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time) ([]*Expense, error)
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
}
