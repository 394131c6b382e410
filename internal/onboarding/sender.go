package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender delivers a one-time code to an email address.
type Sender interface {
	SendCode(ctx context.Context, email, code string) error
}

// LogSender writes codes to the structured log instead of sending mail.
// It is the default in development, where no SMTP relay is configured.
type LogSender struct{}

// SendCode logs the code at INFO level.
func (LogSender) SendCode(_ context.Context, email, code string) error {
	slog.Info("one-time code issued", "email", email, "code", code)
	return nil
}

// SMTPSender delivers codes through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port of the relay
	From string
}

// SendCode sends a minimal plain-text message carrying the code.
func (s SMTPSender) SendCode(_ context.Context, email, code string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\n"+
		"Your verification code is %s. It expires shortly; if you did not request it, ignore this message.\r\n",
		s.From, email, code)

	if err := smtp.SendMail(s.Addr, nil, s.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("sending code to %s: %w", email, err)
	}
	return nil
}
