package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/reminder/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reminder *domain.Reminder) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reminders (id, org_id, invoice_id, kind, trigger_date, sent, sent_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		reminder.ID,
		reminder.OrgID,
		reminder.InvoiceID,
		reminder.Kind,
		reminder.TriggerDate,
		reminder.Sent,
		reminder.SentAt,
		reminder.CreatedAt,
	).Error
}

func (r *repo) BulkInsert(ctx context.Context, db *gorm.DB, reminders []*domain.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(reminders).Error
}

func (r *repo) DeleteAutomatic(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM reminders WHERE org_id = ? AND invoice_id = ? AND kind NOT IN (?)`,
		orgID,
		invoiceID,
		domain.AuditKinds(),
	).Error
}

func (r *repo) DeleteByInvoice(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM reminders WHERE org_id = ? AND invoice_id = ?`,
		orgID,
		invoiceID,
	).Error
}

func (r *repo) ListByInvoice(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, invoice_id, kind, trigger_date, sent, sent_at, created_at
		 FROM reminders WHERE org_id = ? AND invoice_id = ?
		 ORDER BY trigger_date ASC, id ASC`,
		orgID,
		invoiceID,
	).Scan(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID, limit int) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	stmt := db.WithContext(ctx).
		Model(&domain.Reminder{}).
		Where("org_id = ?", orgID).
		Order("trigger_date ASC, id ASC")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *repo) ListDue(ctx context.Context, db *gorm.DB, today time.Time, limit int) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	stmt := db.WithContext(ctx).
		Model(&domain.Reminder{}).
		Where("sent = ?", false).
		Where("trigger_date <= ?", today).
		Where("kind NOT IN ?", domain.AuditKinds()).
		Order("trigger_date ASC, id ASC")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *repo) ListDueWithContext(ctx context.Context, db *gorm.DB, today time.Time, limit int) ([]*domain.DueReminder, error) {
	query := `SELECT r.id, r.org_id, r.invoice_id, r.kind, r.trigger_date, r.sent, r.sent_at, r.created_at,
	       i.number AS invoice_number, i.status AS invoice_status, i.amount AS invoice_amount,
	       i.currency AS currency, i.due_date AS due_date,
	       c.name AS client_name, c.email AS client_email,
	       d.blob_key AS file_blob_key, d.name AS file_name, d.content_type AS file_content_type
	 FROM reminders r
	 JOIN invoices i ON i.id = r.invoice_id AND i.org_id = r.org_id
	 JOIN clients c ON c.id = i.client_id AND c.org_id = i.org_id
	 LEFT JOIN documents d ON i.file_document_id IS NOT NULL AND d.id = i.file_document_id AND d.org_id = i.org_id
	 WHERE r.sent = ? AND r.trigger_date <= ? AND r.kind NOT IN (?)
	 ORDER BY r.trigger_date ASC, r.id ASC`
	args := []interface{}{false, today, domain.AuditKinds()}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var due []*domain.DueReminder
	err := db.WithContext(ctx).Raw(query, args...).Scan(&due).Error
	if err != nil {
		return nil, err
	}
	return due, nil
}

func (r *repo) MarkSent(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE reminders SET sent = ?, sent_at = ? WHERE id = ? AND sent = ?`,
		true,
		now,
		id,
		false,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
