package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/expense/domain"
	"github.com/solobill/solobill/internal/orgcontext"
	vendordomain "github.com/solobill/solobill/internal/vendors/domain"
	"github.com/solobill/solobill/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Vendors vendordomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	vendors vendordomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("expense.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		vendors: p.Vendors,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Expense{}, domain.ErrInvalidOrganization
	}

	if req.Amount <= 0 {
		return domain.Expense{}, domain.ErrInvalidAmount
	}
	if req.ExpenseDate.IsZero() {
		return domain.Expense{}, domain.ErrInvalidDate
	}

	var vendorID *snowflake.ID
	if raw := strings.TrimSpace(req.VendorID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.Expense{}, domain.ErrInvalidVendor
		}
		vendor, err := s.vendors.FindByID(ctx, s.db, orgID, id)
		if err != nil {
			return domain.Expense{}, err
		}
		if vendor == nil {
			return domain.Expense{}, domain.ErrInvalidVendor
		}
		vendorID = &id
	}

	var receiptID *snowflake.ID
	if raw := strings.TrimSpace(req.ReceiptDocumentID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.Expense{}, domain.ErrInvalidID
		}
		receiptID = &id
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = "EUR"
	}

	now := s.clock.Now()
	expense := domain.Expense{
		ID:                s.genID.Generate(),
		OrgID:             orgID,
		VendorID:          vendorID,
		Description:       strings.TrimSpace(req.Description),
		Amount:            req.Amount,
		Currency:          currency,
		Category:          strings.TrimSpace(req.Category),
		ExpenseDate:       clock.Midnight(req.ExpenseDate),
		ReceiptDocumentID: receiptID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &expense); err != nil {
		return domain.Expense{}, err
	}

	return expense, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateExpenseRequest) (domain.Expense, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Expense{}, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Expense{}, domain.ErrInvalidID
	}

	expense, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}

	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return domain.Expense{}, domain.ErrInvalidAmount
		}
		expense.Amount = *req.Amount
	}
	if req.Currency != nil {
		if currency := strings.TrimSpace(*req.Currency); currency != "" {
			expense.Currency = currency
		}
	}
	if req.Category != nil {
		expense.Category = strings.TrimSpace(*req.Category)
	}
	if req.ExpenseDate != nil {
		if req.ExpenseDate.IsZero() {
			return domain.Expense{}, domain.ErrInvalidDate
		}
		expense.ExpenseDate = clock.Midnight(*req.ExpenseDate)
	}
	expense.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, expense); err != nil {
		return domain.Expense{}, err
	}

	return *expense, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetExpenseRequest) (domain.Expense, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Expense{}, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Expense{}, domain.ErrInvalidID
	}

	expense, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}

	return *expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) (domain.ListExpenseResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListExpenseResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListExpenseFilter{
		Category: strings.TrimSpace(req.Category),
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	if raw := strings.TrimSpace(req.VendorID); raw != "" {
		vendorID, err := snowflake.ParseString(raw)
		if err != nil || vendorID == 0 {
			return domain.ListExpenseResponse{}, domain.ErrInvalidVendor
		}
		filter.VendorID = vendorID
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
		return domain.ListExpenseResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(expense *domain.Expense) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        expense.ID.String(),
			CreatedAt: expense.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	expenses := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}

	return domain.ListExpenseResponse{
		PageInfo: *pageInfo,
		Expenses: expenses,
	}, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetExpenseRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	expense, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, orgID, id)
}
