// Package email delivers the diagnostic report to the respondent.
package email

import (
	"context"

	"maturity_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes
	FileName string // e.g. "diagnostico-maturidade-vendas.pdf"
	MIMEType string // e.g. "application/pdf"
}

// ReportEmail is what the report message shows.
type ReportEmail struct {
	Name         string
	Company      string
	LevelHeading string
	OverallScore string
	ShareURL     string
	BrandName    string
}

type Sender interface {
	SendReportEmail(ctx context.Context, toEmail string, data ReportEmail, attachments ...Attachment) error
}

type NoopSender struct{}

func (NoopSender) SendReportEmail(ctx context.Context, toEmail string, data ReportEmail, attachments ...Attachment) error {
	return nil
}

// NewSender returns an SMTP sender, or a no-op when email is disabled.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
