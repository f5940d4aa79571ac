package domain

import (
	"context"
	"errors"
	"time"

	"github.com/solobill/solobill/pkg/db/pagination"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidVendor       = errors.New("invalid_vendor")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrNotFound            = errors.New("not_found")
)

type CreateExpenseRequest struct {
	VendorID          string
	Description       string
	Amount            int64
	Currency          string
	Category          string
	ExpenseDate       time.Time
	ReceiptDocumentID string
}

type UpdateExpenseRequest struct {
	ID          string
	Description *string
	Amount      *int64
	Currency    *string
	Category    *string
	ExpenseDate *time.Time
}

type GetExpenseRequest struct {
	ID string
}

type ListExpenseRequest struct {
	PageToken string
	PageSize  int32
	VendorID  string
	Category  string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
}

type Service interface {
	Create(context.Context, CreateExpenseRequest) (Expense, error)
	Update(context.Context, UpdateExpenseRequest) (Expense, error)
	GetByID(context.Context, GetExpenseRequest) (Expense, error)
	List(context.Context, ListExpenseRequest) (ListExpenseResponse, error)
	Delete(context.Context, GetExpenseRequest) error
}
