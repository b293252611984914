package notify

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer delivers verification codes over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer returns nil when no host is configured, so callers can
// treat an absent mail channel uniformly.
func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	if host == "" {
		return nil
	}
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

// SendCode emails the verification code to the recipient.
func (m *SMTPMailer) SendCode(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Codul tau de verificare WEB? DONE!")
	msg.SetBody("text/plain", fmt.Sprintf("Codul tau de verificare este: %s\n\nCodul expira in 10 minute.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}
