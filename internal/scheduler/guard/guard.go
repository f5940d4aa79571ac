// Package guard holds pure precondition checks shared by the lifecycle
// services and the dispatch path.
package guard

import (
	"errors"
	"time"

	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
)

var ErrInvoicePaid = errors.New("invoice_paid")

// EnsureManualReminderAllowed rejects a human-triggered reminder unless the
// invoice is actually late. Both inputs are date-only UTC; the due date must
// be strictly before today.
func EnsureManualReminderAllowed(dueDate, today time.Time) error {
	if !dueDate.Before(today) {
		return invoicedomain.ErrNotOverdue
	}
	return nil
}

// EnsureReminderDispatchable rejects dispatch for paid invoices. A reminder
// scheduled before payment was recorded must be retired, never delivered.
func EnsureReminderDispatchable(status invoicedomain.InvoiceStatus) error {
	if status == invoicedomain.InvoiceStatusPaid {
		return ErrInvoicePaid
	}
	return nil
}

// EnsureStatusKnown validates a raw status against the closed set.
func EnsureStatusKnown(raw string) (invoicedomain.InvoiceStatus, error) {
	status, ok := invoicedomain.ParseStatus(raw)
	if !ok {
		return "", invoicedomain.ErrInvalidStatus
	}
	return status, nil
}
