package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reminder *Reminder) error
	BulkInsert(ctx context.Context, db *gorm.DB, reminders []*Reminder) error
	// DeleteAutomatic removes all schedule-derived rows for an invoice and
	// leaves audit rows untouched.
	DeleteAutomatic(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) error
	DeleteByInvoice(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) error
	ListByInvoice(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) ([]*Reminder, error)
	// ListByOrg returns every row for the org, sent or not, upcoming
	// included, oldest trigger first.
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID, limit int) ([]*Reminder, error)
	// ListDue returns unsent automatic rows with trigger_date <= today,
	// oldest trigger first, capped at limit when limit > 0.
	ListDue(ctx context.Context, db *gorm.DB, today time.Time, limit int) ([]*Reminder, error)
	// ListDueWithContext is ListDue joined with the invoice, client and
	// attached document fields the dispatcher needs.
	ListDueWithContext(ctx context.Context, db *gorm.DB, today time.Time, limit int) ([]*DueReminder, error)
	// MarkSent flips a row to sent. Returns false when the row was already
	// sent or does not exist, so callers stay idempotent.
	MarkSent(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error)
}
