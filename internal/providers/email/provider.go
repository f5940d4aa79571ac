package email

import (
	"context"
	"errors"
)

// Classified send failures. Callers treat both as retryable; the split exists
// for operator-facing diagnostics.
var (
	ErrAuth    = errors.New("email_auth_failed")
	ErrConnect = errors.New("email_connect_failed")
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) error {
	return nil
}
