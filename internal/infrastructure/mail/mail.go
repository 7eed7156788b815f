// Package mail delivers account emails.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

const (
	sendTimeout   = 10 * time.Second
	resetSubject  = "Your password reset token (valid for 10 min)"
	resetTextBody = "Hi %s,\n\nForgot your password? Submit a PATCH request with your new password and passwordConfirm to: %s\n\nIf you didn't forget your password, please ignore this email."
	resetHTMLBody = `<p>Hi %s,</p><p>Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: <a href="%s">%s</a></p><p>If you didn't forget your password, please ignore this email.</p>`
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	dialer sender
	from   string
	log    zerolog.Logger
}

func NewSMTPMailer(cfg Config, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/plain", fmt.Sprintf(resetTextBody, firstName(name), resetURL))
	msg.AddAlternative("text/html", fmt.Sprintf(resetHTMLBody, firstName(name), resetURL, resetURL))

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case <-ctx.Done():
		m.log.Warn().Err(ctx.Err()).Str("to", to).Msg("password reset email cancelled")
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send password reset email: %w", err)
		}
		m.log.Info().Str("to", to).Msg("password reset email sent")
		return nil
	}
}

// LogMailer logs reset requests instead of sending them. It is used when no
// SMTP host is configured. The reset link is a credential and is only logged
// at debug level.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, name, resetURL string) error {
	m.log.Info().Str("to", to).Str("name", name).Msg("password reset email (not sent)")
	m.log.Debug().Str("to", to).Str("reset_url", resetURL).Msg("password reset link")
	return nil
}

func firstName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}
