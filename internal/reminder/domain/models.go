// Package domain defines the payment reminder ledger: one row per planned or
// recorded reminder, owned exclusively by the reminder service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
)

// Kind identifies a reminder slot relative to the invoice due date.
// Automatic kinds are derived from the invoice reminder policy; manual and
// automated rows are an append-only audit trail of ad-hoc sends (manual for a
// human trigger, automated for a machine-triggered send outside the planned
// schedule).
type Kind string

const (
	KindMinus3    Kind = "minus3"
	KindOnDue     Kind = "on_due"
	KindPlus7     Kind = "plus7"
	KindPlus10    Kind = "plus10"
	KindPlus15    Kind = "plus15"
	KindManual    Kind = "manual"
	KindAutomated Kind = "automated"
)

// IsAutomatic reports whether the kind is schedule-derived. Regeneration only
// ever touches automatic kinds; audit kinds survive every replan.
func (k Kind) IsAutomatic() bool {
	switch k {
	case KindMinus3, KindOnDue, KindPlus7, KindPlus10, KindPlus15:
		return true
	default:
		return false
	}
}

// AuditKinds lists the append-only record kinds.
func AuditKinds() []Kind {
	return []Kind{KindManual, KindAutomated}
}

// ParseKind validates a raw kind value.
func ParseKind(raw string) (Kind, bool) {
	switch Kind(raw) {
	case KindMinus3, KindOnDue, KindPlus7, KindPlus10, KindPlus15, KindManual, KindAutomated:
		return Kind(raw), true
	default:
		return "", false
	}
}

// RepetitionCode is one entry of an invoice's reminder policy. The string
// values are the legacy API tokens and are kept for wire compatibility.
type RepetitionCode string

const (
	CodeThreeDaysBefore  RepetitionCode = "3"
	CodeSevenDaysAfter   RepetitionCode = "7"
	CodeTenDaysAfter     RepetitionCode = "10"
	CodeFifteenDaysAfter RepetitionCode = "15"
	CodeOnDueDate        RepetitionCode = "Only on Due date"
)

// ParseRepetitionCode maps a raw policy token onto the closed code set.
// Unknown tokens return false and are skipped by the planner.
func ParseRepetitionCode(raw string) (RepetitionCode, bool) {
	switch RepetitionCode(raw) {
	case CodeThreeDaysBefore, CodeSevenDaysAfter, CodeTenDaysAfter, CodeFifteenDaysAfter, CodeOnDueDate:
		return RepetitionCode(raw), true
	default:
		return "", false
	}
}

// Kind returns the reminder kind a code plans.
func (c RepetitionCode) Kind() Kind {
	switch c {
	case CodeThreeDaysBefore:
		return KindMinus3
	case CodeOnDueDate:
		return KindOnDue
	case CodeSevenDaysAfter:
		return KindPlus7
	case CodeTenDaysAfter:
		return KindPlus10
	case CodeFifteenDaysAfter:
		return KindPlus15
	default:
		return ""
	}
}

// Reminder is one ledger entry.
type Reminder struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organization_id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	Kind        Kind         `gorm:"type:text;not null" json:"kind"`
	TriggerDate time.Time    `gorm:"not null" json:"trigger_date"`
	Sent        bool         `gorm:"not null;default:false" json:"sent"`
	SentAt      *time.Time   `json:"sent_at,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Reminder) TableName() string { return "reminders" }

// DueReminder is a ledger entry joined with the invoice and client fields the
// dispatcher needs to build and address the outbound notification.
type DueReminder struct {
	Reminder

	InvoiceNumber   string                      `json:"invoice_number"`
	InvoiceStatus   invoicedomain.InvoiceStatus `json:"invoice_status"`
	InvoiceAmount   int64                       `json:"invoice_amount"`
	Currency        string                      `json:"currency"`
	DueDate         time.Time                   `json:"due_date"`
	ClientName      string                      `json:"client_name"`
	ClientEmail     string                      `json:"client_email"`
	FileBlobKey     *string                     `json:"-"`
	FileName        *string                     `json:"-"`
	FileContentType *string                     `json:"-"`
}
