// Package mailer delivers transactional mail (password reset messages).
package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Mailer sends a plain-text message. A returned error means the message
// was not delivered and callers must roll back any state tied to it.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPConfig holds dialer settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP is a Mailer backed by an SMTP server.
type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

// Send delivers a single plain-text message synchronously.
func (m *SMTP) Send(to, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return fmt.Errorf("smtp config missing host or from address")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %q: %w", to, err)
	}
	return nil
}
