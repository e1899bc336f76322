package mailer

import (
	"context"
	"errors"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/Zwubman/team-work-supply-tracker/pkg/config"
)

// Message is a single outbound email.
type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over an authenticated SMTP connection.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a sender from SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp from address is required")
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// Port 465 expects implicit TLS rather than STARTTLS.
	dialer.SSL = cfg.Port == 465
	return &SMTPSender{dialer: dialer, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.HTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
