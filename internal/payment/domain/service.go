package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvoiceNotFound     = errors.New("invoice_not_found")
)

type RecordPaymentRequest struct {
	InvoiceID string
	Amount    int64
	Currency  string
	Method    string
	Note      string
	PaidAt    *time.Time
}

type ListPaymentRequest struct {
	InvoiceID string
}

type Service interface {
	// Record inserts a payment and, in the same transaction, marks the
	// invoice paid if it is not already.
	Record(context.Context, RecordPaymentRequest) (Payment, error)
	ListByInvoice(context.Context, ListPaymentRequest) ([]Payment, error)
}
