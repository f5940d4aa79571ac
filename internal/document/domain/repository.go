package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/solobill/solobill/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListDocumentFilter struct {
	Kind DocumentKind
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, document *Document) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Document, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListDocumentFilter, page pagination.Pagination) ([]*Document, error)
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
}
