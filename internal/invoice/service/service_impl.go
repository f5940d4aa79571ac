package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/solobill/solobill/internal/client/domain"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/config"
	documentdomain "github.com/solobill/solobill/internal/document/domain"
	"github.com/solobill/solobill/internal/invoice/domain"
	"github.com/solobill/solobill/internal/mailtemplate"
	"github.com/solobill/solobill/internal/orgcontext"
	paymentdomain "github.com/solobill/solobill/internal/payment/domain"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/solobill/solobill/internal/providers/email"
	reminderdomain "github.com/solobill/solobill/internal/reminder/domain"
	"github.com/solobill/solobill/internal/scheduler/guard"
	"github.com/solobill/solobill/pkg/db"
	"github.com/solobill/solobill/pkg/db/pagination"
	"github.com/solobill/solobill/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Cfg       config.Config
	Repo      domain.Repository
	Clients   clientdomain.Repository
	Payments  paymentdomain.Repository
	Documents documentdomain.Repository
	Reminders reminderdomain.Service
	Mail      *mailtemplate.Builder
	Email     email.Provider
	Blobs     blob.Store
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	clients   clientdomain.Repository
	payments  paymentdomain.Repository
	documents documentdomain.Repository
	reminders reminderdomain.Service
	mail      *mailtemplate.Builder
	email     email.Provider
	blobs     blob.Store

	sendTimeout time.Duration
	companyName string
}

func New(p Params) domain.Service {
	sendTimeout := p.Cfg.Scheduler.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		clients:     p.Clients,
		payments:    p.Payments,
		documents:   p.Documents,
		reminders:   p.Reminders,
		mail:        p.Mail,
		email:       p.Email,
		blobs:       p.Blobs,
		sendTimeout: sendTimeout,
		companyName: p.Cfg.CompanyName,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.Invoice{}, domain.ErrInvalidClient
	}

	number := strings.TrimSpace(req.Number)
	if number == "" {
		return domain.Invoice{}, domain.ErrInvalidNumber
	}

	if req.DueDate.IsZero() {
		return domain.Invoice{}, domain.ErrInvalidDueDate
	}
	dueDate := clock.Midnight(req.DueDate)

	client, err := s.clients.FindByID(ctx, s.db, orgID, clientID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if client == nil {
		return domain.Invoice{}, domain.ErrInvalidClient
	}

	now := s.clock.Now()
	today := clock.Today(s.clock)

	status := domain.DeriveStatus(dueDate, today)
	if req.Status != "" {
		parsed, ok := domain.ParseStatus(req.Status)
		if !ok {
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
		status = parsed
	}

	issueDate := today
	if req.IssueDate != nil {
		issueDate = clock.Midnight(*req.IssueDate)
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = "EUR"
	}

	invoice := domain.Invoice{
		ID:             s.genID.Generate(),
		OrgID:          orgID,
		ClientID:       clientID,
		Number:         number,
		Amount:         req.Amount,
		Currency:       currency,
		Status:         status,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		ReminderPolicy: datatypes.NewJSONSlice(normalizePolicy(req.ReminderPolicy)),
		Metadata:       datatypes.JSONMap{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status == domain.InvoiceStatusPaid {
		invoice.PaidAt = &now
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrDuplicateNumber
		}
		return domain.Invoice{}, err
	}

	// Schedule generation is best effort on create; the invoice row is
	// already committed and a later update replans from scratch.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.reminders.Regenerate(ctx, tx, &invoice)
	})
	if err != nil {
		s.log.Warn("generate reminder schedule",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}

	return invoice, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	today := clock.Today(s.clock)
	oldStatus := invoice.Status

	if req.Amount != nil {
		invoice.Amount = *req.Amount
	}
	if req.Currency != nil {
		if currency := strings.TrimSpace(*req.Currency); currency != "" {
			invoice.Currency = currency
		}
	}

	dueChanged := false
	if req.DueDate != nil {
		if req.DueDate.IsZero() {
			return domain.Invoice{}, domain.ErrInvalidDueDate
		}
		dueDate := clock.Midnight(*req.DueDate)
		if !dueDate.Equal(invoice.DueDate) {
			dueChanged = true
			invoice.DueDate = dueDate
		}
	}

	policyChanged := false
	if req.ReminderPolicy != nil {
		policy := normalizePolicy(*req.ReminderPolicy)
		if !equalPolicy(policy, invoice.ReminderPolicy) {
			policyChanged = true
			invoice.ReminderPolicy = datatypes.NewJSONSlice(policy)
		}
	}

	statusChanged := false
	if req.Status != nil {
		parsed, ok := domain.ParseStatus(*req.Status)
		if !ok {
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
		if parsed != oldStatus {
			statusChanged = true
			invoice.Status = parsed
		}
	} else if dueChanged && oldStatus != domain.InvoiceStatusPaid {
		derived := domain.DeriveStatus(invoice.DueDate, today)
		if derived != oldStatus {
			statusChanged = true
			invoice.Status = derived
		}
	}

	leavingPaid := oldStatus == domain.InvoiceStatusPaid && invoice.Status != domain.InvoiceStatusPaid
	becomingPaid := oldStatus != domain.InvoiceStatusPaid && invoice.Status == domain.InvoiceStatusPaid
	if becomingPaid {
		invoice.PaidAt = &now
	}
	if leavingPaid {
		invoice.PaidAt = nil
	}
	invoice.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, invoice); err != nil {
			return err
		}
		if leavingPaid {
			if err := s.payments.DeleteByInvoice(ctx, tx, orgID, invoice.ID); err != nil {
				return err
			}
		}
		if dueChanged || policyChanged || statusChanged {
			s.replan(ctx, tx, invoice)
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	return *invoice, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	status, err := guard.EnsureStatusKnown(req.Status)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	if invoice.Status == status {
		return *invoice, nil
	}

	now := s.clock.Now()
	leavingPaid := invoice.Status == domain.InvoiceStatusPaid

	invoice.Status = status
	invoice.PaidAt = nil
	if status == domain.InvoiceStatusPaid {
		invoice.PaidAt = &now
	}
	invoice.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatus(ctx, tx, orgID, invoice.ID, status, invoice.PaidAt, now); err != nil {
			return err
		}
		if leavingPaid {
			// A payment row only makes sense while the invoice is paid.
			if err := s.payments.DeleteByInvoice(ctx, tx, orgID, invoice.ID); err != nil {
				return err
			}
			// While paid, regeneration was a no-op. Replan now.
			s.replan(ctx, tx, invoice)
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	return *invoice, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	return *invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListInvoiceFilter{
		DueFrom: req.DueFrom,
		DueTo:   req.DueTo,
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil || clientID == 0 {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidClient
		}
		filter.ClientID = clientID
	}

	pageSize := int(req.PageSize)
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	return domain.ListInvoiceResponse{
		PageInfo: *pageInfo,
		Invoices: invoices,
	}, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetInvoiceRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reminders.DeleteByInvoice(ctx, tx, orgID, id); err != nil {
			return err
		}
		if err := s.payments.DeleteByInvoice(ctx, tx, orgID, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, orgID, id)
	})
}

func (s *Service) SendEmail(ctx context.Context, req domain.SendEmailRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	emailType, ok := mailtemplate.ParseEmailType(strings.TrimSpace(req.EmailType))
	if !ok {
		return domain.ErrInvalidEmailType
	}

	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}

	// Manual reminders are only allowed once the invoice is actually late.
	// Automated callers already dispatch from the due ledger.
	if emailType == mailtemplate.TypeReminder && req.Origin != domain.SendOriginAutomated {
		if err := guard.EnsureManualReminderAllowed(clock.Midnight(invoice.DueDate), clock.Today(s.clock)); err != nil {
			return err
		}
	}

	client, err := s.clients.FindByID(ctx, s.db, orgID, invoice.ClientID)
	if err != nil {
		return err
	}
	if client == nil || client.Email == "" {
		return domain.ErrClientNoEmail
	}

	msg, err := s.mail.Build(emailType, mailtemplate.Data{
		ClientName:    client.Name,
		CompanyName:   s.companyName,
		InvoiceNumber: invoice.Number,
		Amount:        money.Format(invoice.Amount),
		Currency:      invoice.Currency,
		DateSent:      clock.Today(s.clock).Format("2006-01-02"),
		DueDate:       invoice.DueDate.Format("2006-01-02"),
	})
	if err != nil {
		return err
	}

	outbound := email.Message{
		To:      []string{client.Email},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	if attachment := s.loadAttachment(ctx, orgID, invoice); attachment != nil {
		outbound.Attachments = append(outbound.Attachments, *attachment)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.email.Send(sendCtx, outbound); err != nil {
		return err
	}

	now := s.clock.Now()
	if emailType == mailtemplate.TypeInvoice && invoice.SentAt == nil {
		if err := s.repo.MarkSent(ctx, s.db, orgID, invoice.ID, now); err != nil {
			s.log.Error("mark invoice sent",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err),
			)
		}
	}

	if emailType == mailtemplate.TypeReminder {
		// The audit row is informational; the mail already went out.
		var recordErr error
		if req.Origin == domain.SendOriginAutomated {
			recordErr = s.reminders.RecordAutomatedSend(ctx, invoice.ID)
		} else {
			_, recordErr = s.reminders.RecordManual(ctx, invoice.ID)
		}
		if recordErr != nil {
			s.log.Error("record reminder send",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("origin", string(req.Origin)),
				zap.Error(recordErr),
			)
		}
	}

	return nil
}

// replan rebuilds the reminder schedule under a savepoint so a planner
// failure cannot roll back the invoice mutation it rides along with.
func (s *Service) replan(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice) {
	err := tx.Transaction(func(inner *gorm.DB) error {
		return s.reminders.Regenerate(ctx, inner, invoice)
	})
	if err != nil {
		s.log.Warn("replan reminder schedule",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) RefreshOverdue(ctx context.Context) (int64, error) {
	return s.repo.MarkOverdue(ctx, s.db, clock.Today(s.clock), s.clock.Now())
}

func (s *Service) loadAttachment(ctx context.Context, orgID snowflake.ID, invoice *domain.Invoice) *email.Attachment {
	if invoice.FileDocumentID == nil || *invoice.FileDocumentID == 0 {
		return nil
	}

	document, err := s.documents.FindByID(ctx, s.db, orgID, *invoice.FileDocumentID)
	if err != nil || document == nil {
		s.log.Warn("load invoice document",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
		return nil
	}

	rc, err := s.blobs.Get(ctx, document.BlobKey)
	if err != nil {
		s.log.Warn("load invoice attachment",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("blob_key", document.BlobKey),
			zap.Error(err),
		)
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		s.log.Warn("read invoice attachment",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
		return nil
	}

	return &email.Attachment{
		Filename:    document.Name,
		ContentType: document.ContentType,
		Data:        data,
	}
}

func normalizePolicy(policy []string) []string {
	out := make([]string, 0, len(policy))
	for _, code := range policy {
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func equalPolicy(a []string, b datatypes.JSONSlice[string]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
