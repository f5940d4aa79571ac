package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/internal/document/domain"
	"github.com/solobill/solobill/pkg/db/option"
	"github.com/solobill/solobill/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, document *domain.Document) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO documents (id, org_id, name, kind, content_type, size_bytes, blob_key, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		document.ID,
		document.OrgID,
		document.Name,
		document.Kind,
		document.ContentType,
		document.SizeBytes,
		document.BlobKey,
		document.CreatedAt,
		document.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Document, error) {
	var document domain.Document
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, kind, content_type, size_bytes, blob_key, created_at, updated_at
		 FROM documents WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&document).Error
	if err != nil {
		return nil, err
	}
	if document.ID == 0 {
		return nil, nil
	}
	return &document, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListDocumentFilter, page pagination.Pagination) ([]*domain.Document, error) {
	var documents []*domain.Document
	stmt := db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("org_id = ?", orgID)
	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM documents WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Error
}
