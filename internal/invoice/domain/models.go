// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice payment states. paid is sticky: only an
// explicit user action leaves it, the other two are derived from the due date.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// ParseStatus validates a raw status value against the closed set.
func ParseStatus(raw string) (InvoiceStatus, bool) {
	switch InvoiceStatus(raw) {
	case InvoiceStatusPending, InvoiceStatusOverdue, InvoiceStatusPaid:
		return InvoiceStatus(raw), true
	default:
		return "", false
	}
}

// DeriveStatus computes the automatic status for a due date: overdue when the
// due date has passed, pending otherwise. Both inputs are date-only UTC.
func DeriveStatus(dueDate, today time.Time) InvoiceStatus {
	if dueDate.Before(today) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusPending
}

// Invoice represents a client invoice.
type Invoice struct {
	ID             snowflake.ID               `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID               `gorm:"not null;index" json:"organization_id"`
	ClientID       snowflake.ID               `gorm:"not null;index" json:"client_id"`
	Number         string                     `gorm:"not null" json:"number"`
	Amount         int64                      `gorm:"not null;default:0" json:"amount"`
	Currency       string                     `gorm:"type:text;not null;default:'EUR'" json:"currency"`
	Status         InvoiceStatus              `gorm:"type:text;not null;default:'pending'" json:"status"`
	IssueDate      time.Time                  `gorm:"not null" json:"issue_date"`
	DueDate        time.Time                  `gorm:"not null" json:"due_date"`
	ReminderPolicy datatypes.JSONSlice[string] `gorm:"column:reminder_policy;not null;default:'[]'" json:"reminder_policy"`
	FileDocumentID *snowflake.ID              `gorm:"index" json:"file_document_id,omitempty"`
	SentAt         *time.Time                 `json:"sent_at,omitempty"`
	PaidAt         *time.Time                 `json:"paid_at,omitempty"`
	Metadata       datatypes.JSONMap          `gorm:"not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt      time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
