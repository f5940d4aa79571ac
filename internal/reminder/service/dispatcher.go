package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/config"
	"github.com/solobill/solobill/internal/mailtemplate"
	"github.com/solobill/solobill/internal/observability/metrics"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/solobill/solobill/internal/providers/email"
	"github.com/solobill/solobill/internal/reminder/domain"
	"github.com/solobill/solobill/internal/scheduler/guard"
	"github.com/solobill/solobill/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	outcomeSent        = "sent"
	outcomeFailed      = "failed"
	outcomeSkippedPaid = "skipped_paid"
)

type DispatcherParams struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Cfg   config.Config
	Repo  domain.Repository
	Mail  *mailtemplate.Builder
	Email email.Provider
	Blobs blob.Store
}

type dispatcher struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
	mail  *mailtemplate.Builder
	email email.Provider
	blobs blob.Store

	sendTimeout time.Duration
	companyName string
}

func NewDispatcher(p DispatcherParams) domain.Dispatcher {
	sendTimeout := p.Cfg.Scheduler.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &dispatcher{
		db:          p.DB,
		log:         p.Log.Named("reminder.dispatcher"),
		clock:       p.Clock,
		repo:        p.Repo,
		mail:        p.Mail,
		email:       p.Email,
		blobs:       p.Blobs,
		sendTimeout: sendTimeout,
		companyName: p.Cfg.CompanyName,
	}
}

// ProcessDue walks every unsent reminder whose trigger date has arrived, in
// trigger-date order, and sends the notification for each. Items are isolated:
// a failure is recorded and the walk continues, and a failed item stays unsent
// so the next pass retries it. Reminders for paid invoices are retired without
// a send.
func (d *dispatcher) ProcessDue(ctx context.Context, limit int) (domain.DispatchSummary, error) {
	today := clock.Today(d.clock)

	due, err := d.repo.ListDueWithContext(ctx, d.db, today, limit)
	if err != nil {
		return domain.DispatchSummary{}, err
	}

	var summary domain.DispatchSummary
	for _, item := range due {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if guard.EnsureReminderDispatchable(item.InvoiceStatus) != nil {
			d.retirePaid(ctx, item)
			summary.SkippedPaid++
			metrics.Dispatch().IncReminderOutcome(outcomeSkippedPaid)
			continue
		}
		summary.Processed++

		if err := d.sendOne(ctx, item); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("reminder %s invoice %s: %v", item.ID, item.InvoiceID, err))
			metrics.Dispatch().IncReminderOutcome(outcomeFailed)
			d.log.Warn("reminder send failed",
				zap.String("reminder_id", item.ID.String()),
				zap.String("invoice_id", item.InvoiceID.String()),
				zap.String("kind", string(item.Kind)),
				zap.Error(err),
			)
			continue
		}

		summary.Sent++
		metrics.Dispatch().IncReminderOutcome(outcomeSent)
		d.log.Info("reminder sent",
			zap.String("reminder_id", item.ID.String()),
			zap.String("invoice_id", item.InvoiceID.String()),
			zap.String("kind", string(item.Kind)),
			zap.String("client_email", item.ClientEmail),
		)
	}

	return summary, nil
}

// retirePaid marks a reminder sent without delivering anything. Paid invoices
// must never be nagged, and leaving the row unsent would re-surface it on
// every pass.
func (d *dispatcher) retirePaid(ctx context.Context, item *domain.DueReminder) {
	if _, err := d.repo.MarkSent(ctx, d.db, item.ID, d.clock.Now()); err != nil {
		d.log.Error("retire reminder for paid invoice",
			zap.String("reminder_id", item.ID.String()),
			zap.String("invoice_id", item.InvoiceID.String()),
			zap.Error(err),
		)
	}
}

func (d *dispatcher) sendOne(ctx context.Context, item *domain.DueReminder) error {
	if item.ClientEmail == "" {
		return fmt.Errorf("client %q has no email address", item.ClientName)
	}

	msg, err := d.mail.Build(mailtemplate.TypeReminder, mailtemplate.Data{
		ClientName:    item.ClientName,
		CompanyName:   d.companyName,
		InvoiceNumber: item.InvoiceNumber,
		Amount:        money.Format(item.InvoiceAmount),
		Currency:      item.Currency,
		DateSent:      clock.Today(d.clock).Format("2006-01-02"),
		DueDate:       item.DueDate.Format("2006-01-02"),
	})
	if err != nil {
		return err
	}

	outbound := email.Message{
		To:      []string{item.ClientEmail},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	if attachment := d.loadAttachment(ctx, item); attachment != nil {
		outbound.Attachments = append(outbound.Attachments, *attachment)
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	if err := d.email.Send(sendCtx, outbound); err != nil {
		return err
	}

	if _, err := d.repo.MarkSent(ctx, d.db, item.ID, d.clock.Now()); err != nil {
		// The mail went out; the row will be retried and may double-send.
		d.log.Error("mark reminder sent",
			zap.String("reminder_id", item.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// loadAttachment fetches the invoice document when one is attached. A broken
// attachment downgrades the mail to body-only rather than failing the send.
func (d *dispatcher) loadAttachment(ctx context.Context, item *domain.DueReminder) *email.Attachment {
	if item.FileBlobKey == nil || *item.FileBlobKey == "" {
		return nil
	}

	rc, err := d.blobs.Get(ctx, *item.FileBlobKey)
	if err != nil {
		d.log.Warn("load invoice attachment",
			zap.String("invoice_id", item.InvoiceID.String()),
			zap.String("blob_key", *item.FileBlobKey),
			zap.Error(err),
		)
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		d.log.Warn("read invoice attachment",
			zap.String("invoice_id", item.InvoiceID.String()),
			zap.Error(err),
		)
		return nil
	}

	filename := "invoice-" + item.InvoiceNumber + ".pdf"
	if item.FileName != nil && *item.FileName != "" {
		filename = *item.FileName
	}
	contentType := "application/pdf"
	if item.FileContentType != nil && *item.FileContentType != "" {
		contentType = *item.FileContentType
	}

	return &email.Attachment{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}
}
