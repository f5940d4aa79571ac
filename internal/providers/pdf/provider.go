package pdf

import (
	"bytes"
	"context"
	"io"
)

type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
	GenerateMonthlyReport(ctx context.Context, data ReportData) (io.Reader, error)
}

// NoOpProvider renders nothing. Useful for tests and deployments that do not
// need PDF output.
type NoOpProvider struct{}

func (p *NoOpProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}

func (p *NoOpProvider) GenerateMonthlyReport(ctx context.Context, data ReportData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}
