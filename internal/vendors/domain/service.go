package domain

import (
	"context"
	"errors"

	"github.com/solobill/solobill/pkg/db/pagination"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidName         = errors.New("invalid_name")
	ErrNotFound            = errors.New("not_found")
)

type CreateVendorRequest struct {
	Name     string
	Email    string
	Category string
}

type UpdateVendorRequest struct {
	ID       string
	Name     *string
	Email    *string
	Category *string
}

type GetVendorRequest struct {
	ID string
}

type ListVendorRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Category  string
}

type ListVendorResponse struct {
	pagination.PageInfo
	Vendors []Vendor `json:"vendors"`
}

type Service interface {
	Create(context.Context, CreateVendorRequest) (Vendor, error)
	Update(context.Context, UpdateVendorRequest) (Vendor, error)
	GetByID(context.Context, GetVendorRequest) (Vendor, error)
	List(context.Context, ListVendorRequest) (ListVendorResponse, error)
	Delete(context.Context, GetVendorRequest) error
}
