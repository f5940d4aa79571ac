package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"gorm.io/gorm"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvoiceNotFound     = errors.New("invoice_not_found")
)

// DispatchSummary reports one dispatcher pass. Rows retired because their
// invoice is already paid count under SkippedPaid only; Processed covers the
// rows that went through the send path and split into Sent and Failed.
type DispatchSummary struct {
	Processed   int      `json:"processed"`
	Sent        int      `json:"sent"`
	Failed      int      `json:"failed"`
	SkippedPaid int      `json:"skipped_paid"`
	Errors      []string `json:"errors,omitempty"`
}

type Service interface {
	// Regenerate rebuilds the automatic schedule for an invoice inside the
	// caller's transaction: existing automatic rows are deleted and the
	// planner output inserted. Manual rows survive. Paid invoices are a
	// no-op, nothing is deleted or planned.
	Regenerate(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice) error

	// RecordManual appends a sent audit row for a human-triggered send.
	RecordManual(ctx context.Context, invoiceID snowflake.ID) (Reminder, error)

	// RecordAutomatedSend appends a sent audit row for a send performed by
	// an automated pathway outside the planned schedule.
	RecordAutomatedSend(ctx context.Context, invoiceID snowflake.ID) error

	// MarkSent flips a planned row to sent. Safe to repeat; the second call
	// reports false and changes nothing.
	MarkSent(ctx context.Context, id snowflake.ID) (bool, error)

	ListDue(ctx context.Context, limit int) ([]*Reminder, error)
	// ListAll returns every ledger row for the caller's org, upcoming and
	// already-sent rows included. Inspection surface, not a dispatch input.
	ListAll(ctx context.Context, limit int) ([]*Reminder, error)
	ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]*Reminder, error)

	// DeleteByInvoice removes every row for an invoice inside the caller's
	// transaction. Used when the invoice itself is deleted.
	DeleteByInvoice(ctx context.Context, tx *gorm.DB, orgID, invoiceID snowflake.ID) error
}

// Dispatcher walks the due ledger and performs the outbound sends.
type Dispatcher interface {
	ProcessDue(ctx context.Context, limit int) (DispatchSummary, error)
}
