package mailer

import (
	"context"
	"fmt"

	"quizify/internal/config"
	"quizify/internal/domain"
	"quizify/internal/logger"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer implements domain.Mailer over plain SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer from SMTP settings. It does not dial
// until the first Send.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host cannot be empty")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address cannot be empty")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

// Send delivers a multipart message with a plain text body and an HTML
// alternative. gomail has no context support, so the dial-and-send runs in
// a goroutine and the call returns early if ctx expires first.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Get().Error("Failed to send email", zap.String("to", to), zap.Error(err))
			return domain.NewEmailDeliveryError(err)
		}
		return nil
	case <-ctx.Done():
		return domain.NewEmailDeliveryError(ctx.Err())
	}
}
