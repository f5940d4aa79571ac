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
	ErrInvalidClient       = errors.New("invalid_client")
	ErrInvalidNumber       = errors.New("invalid_number")
	ErrDuplicateNumber     = errors.New("duplicate_number")
	ErrInvalidDueDate      = errors.New("invalid_due_date")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidEmailType    = errors.New("invalid_email_type")
	ErrNotFound            = errors.New("not_found")
	ErrNotOverdue          = errors.New("invoice_not_overdue")
	ErrClientNoEmail       = errors.New("client_has_no_email")
)

type CreateInvoiceRequest struct {
	ClientID       string
	Number         string
	Amount         int64
	Currency       string
	IssueDate      *time.Time
	DueDate        time.Time
	ReminderPolicy []string
	// Status overrides the derived initial status when set.
	Status string
}

type UpdateInvoiceRequest struct {
	ID             string
	Amount         *int64
	Currency       *string
	DueDate        *time.Time
	ReminderPolicy *[]string
	// Status, when set, is applied verbatim after validation and suppresses
	// the automatic recomputation that a due-date change would trigger.
	Status *string
}

type UpdateStatusRequest struct {
	ID     string
	Status string
}

type GetInvoiceRequest struct {
	ID string
}

type ListInvoiceRequest struct {
	PageToken string
	PageSize  int32
	Status    string
	ClientID  string
	DueFrom   *time.Time
	DueTo     *time.Time
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// SendOrigin distinguishes a human-triggered send from the scheduled batch.
type SendOrigin string

const (
	SendOriginManual    SendOrigin = "manual"
	SendOriginAutomated SendOrigin = "automated"
)

type SendEmailRequest struct {
	ID        string
	EmailType string
	Origin    SendOrigin
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Invoice, error)
	GetByID(context.Context, GetInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	Delete(context.Context, GetInvoiceRequest) error
	SendEmail(context.Context, SendEmailRequest) error

	// RefreshOverdue flips pending invoices whose due date has passed to
	// overdue. Used by the scheduler sweep; returns the number updated.
	RefreshOverdue(ctx context.Context) (int64, error)
}
