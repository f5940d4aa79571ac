// Package domain defines the monthly reporting contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidPeriod       = errors.New("invalid_period")
)

// Organization is the slice of the org row reporting needs.
type Organization struct {
	ID    snowflake.ID `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
}

type GenerateMonthlyRequest struct {
	OrgID snowflake.ID
	Year  int
	Month time.Month
}

// Result reports what GenerateMonthly did. Skipped means a report document
// for the period already existed and DocumentID points at it.
type Result struct {
	DocumentID snowflake.ID `json:"document_id"`
	Skipped    bool         `json:"skipped"`
}

type Service interface {
	GenerateMonthly(ctx context.Context, req GenerateMonthlyRequest) (Result, error)
	// GenerateAll runs GenerateMonthly for every organization with per-org
	// isolation. Returns the number of reports actually generated.
	GenerateAll(ctx context.Context, year int, month time.Month) (int, error)
}
