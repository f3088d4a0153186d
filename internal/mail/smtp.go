package mail

import (
	"gopkg.in/gomail.v2"

	"github.com/gtix/helpdesk/internal/config"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender delivers mail through a configured SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender returns nil when SMTP is not configured, which disables
// outbound notifications.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	if !cfg.Enabled() {
		return nil
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one message. Callers treat failures as best-effort.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, "Ticket App")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(msg)
}
