package guard

import (
	"testing"
	"time"

	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
)

func TestEnsureManualReminderAllowed(t *testing.T) {
	today := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, EnsureManualReminderAllowed(today.AddDate(0, 0, -1), today))
	assert.ErrorIs(t, EnsureManualReminderAllowed(today, today), invoicedomain.ErrNotOverdue)
	assert.ErrorIs(t, EnsureManualReminderAllowed(today.AddDate(0, 0, 1), today), invoicedomain.ErrNotOverdue)
}

func TestEnsureReminderDispatchable(t *testing.T) {
	assert.NoError(t, EnsureReminderDispatchable(invoicedomain.InvoiceStatusPending))
	assert.NoError(t, EnsureReminderDispatchable(invoicedomain.InvoiceStatusOverdue))
	assert.ErrorIs(t, EnsureReminderDispatchable(invoicedomain.InvoiceStatusPaid), ErrInvoicePaid)
}

func TestEnsureStatusKnown(t *testing.T) {
	status, err := EnsureStatusKnown("paid")
	assert.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, status)

	_, err = EnsureStatusKnown("cancelled")
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidStatus)
}
