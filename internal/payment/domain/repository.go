package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	ListByInvoice(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) ([]*Payment, error)
	// DeleteByInvoice removes every payment for an invoice. Called inside
	// the status transition that leaves paid.
	DeleteByInvoice(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) error
	SumByInvoice(ctx context.Context, db *gorm.DB, orgID, invoiceID snowflake.ID) (int64, error)
}
