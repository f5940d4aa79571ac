package domain

import (
	"context"
	"errors"
	"time"

	"github.com/solobill/solobill/pkg/db/pagination"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrNotFound            = errors.New("not_found")
)

type CreateClientRequest struct {
	Name     string
	Email    string
	Company  string
	Currency string
}

type UpdateClientRequest struct {
	ID       string
	Name     *string
	Email    *string
	Company  *string
	Currency *string
}

type GetClientRequest struct {
	ID string
}

type ListClientRequest struct {
	PageToken   string
	PageSize    int32
	Name        string
	Email       string
	Company     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	Update(context.Context, UpdateClientRequest) (Client, error)
	GetByID(context.Context, GetClientRequest) (Client, error)
	List(context.Context, ListClientRequest) (ListClientResponse, error)
	Delete(context.Context, GetClientRequest) error
}
