package mailer

import (
	"context"
	"time"

	"natours/internal/config"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun delivers mail through the Mailgun API. It satisfies auth.Mailer.
type Mailgun struct {
	domain string
	apiKey string
	sender string
}

// NewMailgun creates a mailer from config.
func NewMailgun(cfg config.Config) *Mailgun {
	return &Mailgun{
		domain: cfg.MailgunDomain,
		apiKey: cfg.MailgunAPIKey,
		sender: cfg.EmailFrom,
	}
}

// Send sends a plain-text email. Failures are terminal; nothing retries.
func (m *Mailgun) Send(ctx context.Context, to, subject, text string) error {
	client := mg.NewMailgun(m.domain, m.apiKey)
	msg := client.NewMessage(m.sender, subject, text, to)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, _, err := client.Send(ctx, msg)
	return err
}
