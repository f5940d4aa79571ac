// Package domain contains persistence models for expenses.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Expense records money spent, optionally tied to a vendor and a stored
// receipt document.
type Expense struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID             snowflake.ID  `gorm:"not null;index" json:"organization_id"`
	VendorID          *snowflake.ID `gorm:"index" json:"vendor_id,omitempty"`
	Description       string        `gorm:"type:text;not null;default:''" json:"description"`
	Amount            int64         `gorm:"not null;default:0" json:"amount"`
	Currency          string        `gorm:"type:text;not null;default:'EUR'" json:"currency"`
	Category          string        `gorm:"type:text;not null;default:''" json:"category"`
	ExpenseDate       time.Time     `gorm:"not null" json:"expense_date"`
	ReceiptDocumentID *snowflake.ID `json:"receipt_document_id,omitempty"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }
