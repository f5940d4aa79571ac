// Package domain contains persistence models for vendors, the counterparties
// expenses are paid to.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Vendor represents an expense counterparty.
type Vendor struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Name      string       `gorm:"not null" json:"name"`
	Email     string       `gorm:"type:text;not null;default:''" json:"email"`
	Category  string       `gorm:"type:text;not null;default:''" json:"category"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Vendor) TableName() string { return "vendors" }
