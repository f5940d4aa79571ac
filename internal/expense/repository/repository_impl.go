package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/expense/domain"
	"github.com/solobill/solobill/pkg/db/option"
	"github.com/solobill/solobill/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO expenses (id, org_id, vendor_id, description, amount, currency, category,
		                       expense_date, receipt_document_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.OrgID,
		expense.VendorID,
		expense.Description,
		expense.Amount,
		expense.Currency,
		expense.Category,
		expense.ExpenseDate,
		expense.ReceiptDocumentID,
		expense.CreatedAt,
		expense.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Exec(
		`UPDATE expenses SET description = ?, amount = ?, currency = ?, category = ?,
		        expense_date = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		expense.Description,
		expense.Amount,
		expense.Currency,
		expense.Category,
		expense.ExpenseDate,
		expense.UpdatedAt,
		expense.OrgID,
		expense.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Expense, error) {
	var expense domain.Expense
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, vendor_id, description, amount, currency, category,
		        expense_date, receipt_document_id, created_at, updated_at
		 FROM expenses WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&expense).Error
	if err != nil {
		return nil, err
	}
	if expense.ID == 0 {
		return nil, nil
	}
	return &expense, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListExpenseFilter, page pagination.Pagination) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	stmt := db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("org_id = ?", orgID)
	if filter.VendorID != 0 {
		stmt = stmt.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("expense_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("expense_date <= ?", *filter.DateTo)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repo) ListByRange(ctx context.Context, db *gorm.DB, orgID snowflake.ID, from, to time.Time) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, vendor_id, description, amount, currency, category,
		        expense_date, receipt_document_id, created_at, updated_at
		 FROM expenses WHERE org_id = ? AND expense_date >= ? AND expense_date < ?
		 ORDER BY expense_date ASC, id ASC`,
		orgID,
		from,
		to,
	).Scan(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM expenses WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Error
}
