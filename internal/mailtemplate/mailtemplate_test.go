package mailtemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_RendersEveryType(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	data := Data{
		ClientName:    "Acme GmbH",
		CompanyName:   "Solo Studio",
		InvoiceNumber: "INV-2025-001",
		Amount:        "1234.56",
		Currency:      "EUR",
		DateSent:      "2025-06-10",
		DueDate:       "2025-06-24",
	}

	for _, emailType := range []EmailType{TypeInvoice, TypeUpdate, TypeReminder} {
		msg, err := builder.Build(emailType, data)
		require.NoError(t, err, "type %s", emailType)

		assert.NotEmpty(t, msg.Subject, "type %s", emailType)
		assert.Contains(t, msg.HTML, data.InvoiceNumber, "type %s", emailType)
		assert.Contains(t, msg.Text, data.InvoiceNumber, "type %s", emailType)
		assert.Contains(t, msg.HTML, data.ClientName, "type %s", emailType)
	}
}

func TestBuild_ReminderMentionsDueDate(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	msg, err := builder.Build(TypeReminder, Data{
		ClientName:    "Acme GmbH",
		CompanyName:   "Solo Studio",
		InvoiceNumber: "INV-7",
		Amount:        "10.00",
		Currency:      "EUR",
		DueDate:       "2025-06-24",
	})
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "2025-06-24")
}

func TestParseEmailType(t *testing.T) {
	for _, raw := range []string{"invoice", "update", "reminder"} {
		parsed, ok := ParseEmailType(raw)
		assert.True(t, ok)
		assert.Equal(t, EmailType(raw), parsed)
	}

	_, ok := ParseEmailType("newsletter")
	assert.False(t, ok)
}
