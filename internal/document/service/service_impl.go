package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/clock"
	"github.com/solobill/solobill/internal/document/domain"
	"github.com/solobill/solobill/internal/orgcontext"
	"github.com/solobill/solobill/internal/providers/blob"
	"github.com/solobill/solobill/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Blobs blob.Store
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	blobs blob.Store
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("document.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		blobs: p.Blobs,
	}
}

func (s *Service) Upload(ctx context.Context, req domain.UploadDocumentRequest) (domain.Document, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Document{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Document{}, domain.ErrInvalidName
	}
	if req.Content == nil {
		return domain.Document{}, domain.ErrEmptyContent
	}

	kind := domain.KindUpload
	if raw := strings.TrimSpace(req.Kind); raw != "" {
		parsed, ok := domain.ParseKind(raw)
		if !ok {
			return domain.Document{}, domain.ErrInvalidKind
		}
		kind = parsed
	}

	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, size, err := s.blobs.Put(ctx, req.Content)
	if err != nil {
		return domain.Document{}, err
	}
	if size == 0 {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.log.Warn("delete empty blob", zap.String("blob_key", key), zap.Error(err))
		}
		return domain.Document{}, domain.ErrEmptyContent
	}

	now := s.clock.Now()
	document := domain.Document{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        name,
		Kind:        kind,
		ContentType: contentType,
		SizeBytes:   size,
		BlobKey:     key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &document); err != nil {
		// Orphaned blobs are worse than a failed upload; clean up.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Warn("delete orphan blob", zap.String("blob_key", key), zap.Error(delErr))
		}
		return domain.Document{}, err
	}

	return document, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetDocumentRequest) (domain.Document, error) {
	document, err := s.find(ctx, req)
	if err != nil {
		return domain.Document{}, err
	}
	return *document, nil
}

func (s *Service) Open(ctx context.Context, req domain.GetDocumentRequest) (domain.Document, io.ReadCloser, error) {
	document, err := s.find(ctx, req)
	if err != nil {
		return domain.Document{}, nil, err
	}

	rc, err := s.blobs.Get(ctx, document.BlobKey)
	if err != nil {
		return domain.Document{}, nil, err
	}
	return *document, rc, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDocumentRequest) (domain.ListDocumentResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListDocumentResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListDocumentFilter{}
	if raw := strings.TrimSpace(req.Kind); raw != "" {
		kind, ok := domain.ParseKind(raw)
		if !ok {
			return domain.ListDocumentResponse{}, domain.ErrInvalidKind
		}
		filter.Kind = kind
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
		return domain.ListDocumentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(document *domain.Document) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        document.ID.String(),
			CreatedAt: document.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	documents := make([]domain.Document, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		documents = append(documents, *item)
	}

	return domain.ListDocumentResponse{
		PageInfo:  *pageInfo,
		Documents: documents,
	}, nil
}

func (s *Service) Delete(ctx context.Context, req domain.GetDocumentRequest) error {
	document, err := s.find(ctx, req)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, document.OrgID, document.ID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, document.BlobKey); err != nil {
		s.log.Warn("delete blob",
			zap.String("document_id", document.ID.String()),
			zap.String("blob_key", document.BlobKey),
			zap.Error(err),
		)
	}
	return nil
}

func (s *Service) find(ctx context.Context, req domain.GetDocumentRequest) (*domain.Document, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	document, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, domain.ErrNotFound
	}
	return document, nil
}
