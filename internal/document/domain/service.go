package domain

import (
	"context"
	"errors"
	"io"

	"github.com/solobill/solobill/pkg/db/pagination"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidKind         = errors.New("invalid_kind")
	ErrEmptyContent        = errors.New("empty_content")
	ErrNotFound            = errors.New("not_found")
)

type UploadDocumentRequest struct {
	Name        string
	Kind        string
	ContentType string
	Content     io.Reader
}

type GetDocumentRequest struct {
	ID string
}

type ListDocumentRequest struct {
	PageToken string
	PageSize  int32
	Kind      string
}

type ListDocumentResponse struct {
	pagination.PageInfo
	Documents []Document `json:"documents"`
}

type Service interface {
	Upload(context.Context, UploadDocumentRequest) (Document, error)
	GetByID(context.Context, GetDocumentRequest) (Document, error)
	// Open returns the document row and a reader over its content. The
	// caller owns closing the reader.
	Open(context.Context, GetDocumentRequest) (Document, io.ReadCloser, error)
	List(context.Context, ListDocumentRequest) (ListDocumentResponse, error)
	Delete(context.Context, GetDocumentRequest) error
}
