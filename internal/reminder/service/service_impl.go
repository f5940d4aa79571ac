package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/clock"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"github.com/solobill/solobill/internal/orgcontext"
	"github.com/solobill/solobill/internal/reminder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Invoices invoicedomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	invoices invoicedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("reminder.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		invoices: p.Invoices,
	}
}

func (s *Service) Regenerate(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice) error {
	if invoice == nil || invoice.ID == 0 {
		return domain.ErrInvalidID
	}
	if invoice.Status == invoicedomain.InvoiceStatusPaid {
		return nil
	}

	if err := s.repo.DeleteAutomatic(ctx, tx, invoice.OrgID, invoice.ID); err != nil {
		return err
	}

	planned := domain.Plan(invoice.DueDate, invoice.ReminderPolicy)
	if len(planned) == 0 {
		return nil
	}

	now := s.clock.Now()
	reminders := make([]*domain.Reminder, 0, len(planned))
	for _, slot := range planned {
		reminders = append(reminders, &domain.Reminder{
			ID:          s.genID.Generate(),
			OrgID:       invoice.OrgID,
			InvoiceID:   invoice.ID,
			Kind:        slot.Kind,
			TriggerDate: slot.TriggerDate,
			Sent:        false,
			CreatedAt:   now,
		})
	}

	return s.repo.BulkInsert(ctx, tx, reminders)
}

func (s *Service) RecordManual(ctx context.Context, invoiceID snowflake.ID) (domain.Reminder, error) {
	reminder, err := s.recordAdHoc(ctx, invoiceID, domain.KindManual)
	if err != nil {
		return domain.Reminder{}, err
	}
	return *reminder, nil
}

func (s *Service) RecordAutomatedSend(ctx context.Context, invoiceID snowflake.ID) error {
	_, err := s.recordAdHoc(ctx, invoiceID, domain.KindAutomated)
	return err
}

// recordAdHoc appends a sent audit row of the given kind. The planned
// schedule is not touched; these rows exist only as a send record.
func (s *Service) recordAdHoc(ctx context.Context, invoiceID snowflake.ID, kind domain.Kind) (*domain.Reminder, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if invoiceID == 0 {
		return nil, domain.ErrInvalidID
	}

	invoice, err := s.invoices.FindByID(ctx, s.db, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrInvoiceNotFound
	}

	now := s.clock.Now()
	sentAt := now
	reminder := domain.Reminder{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		InvoiceID:   invoiceID,
		Kind:        kind,
		TriggerDate: clock.Midnight(now),
		Sent:        true,
		SentAt:      &sentAt,
		CreatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (s *Service) MarkSent(ctx context.Context, id snowflake.ID) (bool, error) {
	if id == 0 {
		return false, domain.ErrInvalidID
	}
	return s.repo.MarkSent(ctx, s.db, id, s.clock.Now())
}

func (s *Service) ListDue(ctx context.Context, limit int) ([]*domain.Reminder, error) {
	return s.repo.ListDue(ctx, s.db, clock.Today(s.clock), limit)
}

func (s *Service) ListAll(ctx context.Context, limit int) ([]*domain.Reminder, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.ListByOrg(ctx, s.db, orgID, limit)
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]*domain.Reminder, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if invoiceID == 0 {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListByInvoice(ctx, s.db, orgID, invoiceID)
}

func (s *Service) DeleteByInvoice(ctx context.Context, tx *gorm.DB, orgID, invoiceID snowflake.ID) error {
	if orgID == 0 || invoiceID == 0 {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteByInvoice(ctx, tx, orgID, invoiceID)
}
