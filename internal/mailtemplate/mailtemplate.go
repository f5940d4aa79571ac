// Package mailtemplate renders the outbound email bodies for invoice,
// update and reminder notifications.
package mailtemplate

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// EmailType selects the message template.
type EmailType string

const (
	TypeInvoice  EmailType = "invoice"
	TypeUpdate   EmailType = "update"
	TypeReminder EmailType = "reminder"
)

func ParseEmailType(raw string) (EmailType, bool) {
	switch EmailType(raw) {
	case TypeInvoice, TypeUpdate, TypeReminder:
		return EmailType(raw), true
	default:
		return "", false
	}
}

// Data carries the fields every template can reference.
type Data struct {
	ClientName    string
	CompanyName   string
	InvoiceNumber string
	Amount        string
	Currency      string
	DateSent      string
	DueDate       string
}

type Message struct {
	Subject string
	HTML    string
	Text    string
}

type Builder struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewBuilder() (*Builder, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*_html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*_text.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Builder{html: html, text: text}, nil
}

func (b *Builder) Build(emailType EmailType, data Data) (Message, error) {
	var html bytes.Buffer
	if err := b.html.ExecuteTemplate(&html, string(emailType)+"_html.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render html %s: %w", emailType, err)
	}

	var text bytes.Buffer
	if err := b.text.ExecuteTemplate(&text, string(emailType)+"_text.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render text %s: %w", emailType, err)
	}

	return Message{
		Subject: subject(emailType, data),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

func subject(emailType EmailType, data Data) string {
	switch emailType {
	case TypeReminder:
		return fmt.Sprintf("Payment reminder: invoice %s", data.InvoiceNumber)
	case TypeUpdate:
		return fmt.Sprintf("Invoice %s has been updated", data.InvoiceNumber)
	default:
		return fmt.Sprintf("Invoice %s from %s", data.InvoiceNumber, data.CompanyName)
	}
}
