package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/clock"
	invoicedomain "github.com/solobill/solobill/internal/invoice/domain"
	"github.com/solobill/solobill/internal/orgcontext"
	"github.com/solobill/solobill/internal/payment/domain"
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
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		invoices: p.Invoices,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordPaymentRequest) (domain.Payment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Payment{}, domain.ErrInvalidOrganization
	}

	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil || invoiceID == 0 {
		return domain.Payment{}, domain.ErrInvalidID
	}
	if req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}

	invoice, err := s.invoices.FindByID(ctx, s.db, orgID, invoiceID)
	if err != nil {
		return domain.Payment{}, err
	}
	if invoice == nil {
		return domain.Payment{}, domain.ErrInvoiceNotFound
	}

	now := s.clock.Now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}
	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = invoice.Currency
	}

	payment := domain.Payment{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		InvoiceID: invoiceID,
		Amount:    req.Amount,
		Currency:  currency,
		Method:    strings.TrimSpace(req.Method),
		Note:      strings.TrimSpace(req.Note),
		PaidAt:    paidAt,
		CreatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &payment); err != nil {
			return err
		}
		if invoice.Status != invoicedomain.InvoiceStatusPaid {
			return s.invoices.UpdateStatus(ctx, tx, orgID, invoiceID, invoicedomain.InvoiceStatusPaid, &paidAt, now)
		}
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	return payment, nil
}

func (s *Service) ListByInvoice(ctx context.Context, req domain.ListPaymentRequest) ([]domain.Payment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil || invoiceID == 0 {
		return nil, domain.ErrInvalidID
	}

	items, err := s.repo.ListByInvoice(ctx, s.db, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}
	return payments, nil
}
