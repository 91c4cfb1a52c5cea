package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers confirmation codes out-of-band. The code is the only
// secret in the signup flow, so delivery always goes through email.
type Mailer interface {
	SendConfirmationCode(to, username, code string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a Mailer backed by an SMTP server.
func NewSMTPMailer(host string, port int, username, password, from string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *smtpMailer) SendConfirmationCode(to, username, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your API confirmation code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello, %s.\nYour confirmation code for the API: %s", username, code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}
