package infra

import (
	"fmt"
	"net/smtp"

	"tiendapos/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

// NewMailer returns nil when SMTP is not configured; callers treat a nil
// Mailer as "email disabled".
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Send delivers the boleta to the customer email, attaching the PDF when set.
func (m *Mailer) Send(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
