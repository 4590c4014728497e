// Package email delivers transactional mail: Resend in deployed
// environments, the log in local development.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

const welcomeSubject = "Welcome to Calendar"

var welcomeTmpl = template.Must(template.New("welcome").Parse(
	`<p>Welcome to Calendar!</p><p>Your account for <strong>{{.}}</strong> is ready. Sign in to start adding events.</p>`,
))

// Welcome renders the mail sent after a password registration. The address
// is HTML-escaped.
func Welcome(addr string) (subject, body string) {
	var buf bytes.Buffer
	// Executing a parsed template with a string argument cannot fail.
	_ = welcomeTmpl.Execute(&buf, addr)
	return welcomeSubject, buf.String()
}

// LogSender writes outgoing mail to the log. Used for ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email (local dev)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local or when no API key is
// configured, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" || apiKey == "" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}
