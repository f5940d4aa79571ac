// Package domain contains persistence models for invoice payments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Payment records money received against an invoice.
type Payment struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"organization_id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	Amount    int64        `gorm:"not null;default:0" json:"amount"`
	Currency  string       `gorm:"type:text;not null;default:'EUR'" json:"currency"`
	Method    string       `gorm:"type:text;not null;default:''" json:"method"`
	Note      string       `gorm:"type:text;not null;default:''" json:"note"`
	PaidAt    time.Time    `gorm:"not null" json:"paid_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
