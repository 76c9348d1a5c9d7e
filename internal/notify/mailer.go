// Package notify sends booking lifecycle emails. Dispatch is fire-and-forget:
// a failed send is logged and never blocks or rolls back the transition that
// triggered it.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"vehicletracker/pkg/config"
)

type Mailer interface {
	Send(to []string, subject, body string) error
}

// New returns an SMTP mailer when a host is configured, otherwise a no-op.
func New(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return noopMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

// Async dispatches in the background and logs failures.
func Async(m Mailer, to []string, subject, body string) {
	if len(to) == 0 {
		return
	}
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			log.Warn().Err(err).Str("subject", subject).Msg("notification send failed")
		}
	}()
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func (m *smtpMailer) Send(to []string, subject, body string) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("smtp credentials not configured")
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	return smtp.SendMail(addr, auth, from, to, []byte(msg))
}

type noopMailer struct{}

func (noopMailer) Send([]string, string, string) error { return nil }
