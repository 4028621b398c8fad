package services

import (
	"fmt"
	"log"

	"eventease/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email. Sending is best effort; callers never
// fail a mutation because a mail could not go out.
type Mailer interface {
	SendRegistrationConfirmation(to, eventTitle, confirmationCode string) error
	SendPasswordReset(to, token string) error
}

// SMTPMailer sends mail through a configured SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer from email configuration
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
	}
}

// SendRegistrationConfirmation emails an attendee their confirmation code
func (m *SMTPMailer) SendRegistrationConfirmation(to, eventTitle, confirmationCode string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("You're registered for %s", eventTitle))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your registration for %s is confirmed.\n\nConfirmation code: %s\n",
		eventTitle, confirmationCode,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

// SendPasswordReset emails a password reset token
func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"A password reset was requested for your account.\n\nReset token: %s\n\nThe token expires in one hour. If you did not ask for a reset, ignore this mail.\n",
		token,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// NoopMailer drops all mail. Used in development when no SMTP relay is
// configured.
type NoopMailer struct{}

// SendRegistrationConfirmation logs the mail instead of sending it
func (m *NoopMailer) SendRegistrationConfirmation(to, eventTitle, confirmationCode string) error {
	log.Printf("mail (noop): registration confirmation to=%s event=%q code=%s", to, eventTitle, confirmationCode)
	return nil
}

// SendPasswordReset logs the mail instead of sending it
func (m *NoopMailer) SendPasswordReset(to, token string) error {
	log.Printf("mail (noop): password reset to=%s token=%s", to, token)
	return nil
}
