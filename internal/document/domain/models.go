// Package domain contains persistence models for stored documents. The row
// holds metadata only; content lives in the blob store under BlobKey.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// DocumentKind classifies how a document entered the system.
type DocumentKind string

const (
	KindUpload     DocumentKind = "upload"
	KindInvoicePDF DocumentKind = "invoice_pdf"
	KindReport     DocumentKind = "report"
)

func ParseKind(raw string) (DocumentKind, bool) {
	switch DocumentKind(raw) {
	case KindUpload, KindInvoicePDF, KindReport:
		return DocumentKind(raw), true
	default:
		return "", false
	}
}

// Document represents one stored file.
type Document struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Name        string       `gorm:"not null" json:"name"`
	Kind        DocumentKind `gorm:"type:text;not null;default:'upload'" json:"kind"`
	ContentType string       `gorm:"type:text;not null;default:'application/octet-stream'" json:"content_type"`
	SizeBytes   int64        `gorm:"not null;default:0" json:"size_bytes"`
	BlobKey     string       `gorm:"not null" json:"-"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }
