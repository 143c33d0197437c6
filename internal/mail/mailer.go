// Package mail dispatches rendered report documents by email.
package mail

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/gomail.v2"

	"github.com/event-report-manager/backend/internal/artifact"
	"github.com/event-report-manager/backend/internal/config"
)

// ErrDeliveryFailed indicates the SMTP dispatch itself failed. This is a
// different failure class from artifact.ErrNotFound (attachment missing) and
// the two must never be conflated: delivery failures are retryable, a missing
// artifact is not.
var ErrDeliveryFailed = errors.New("mail delivery failed")

// Sender abstracts the SMTP dial-and-send step. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer composes and sends report emails with the PDF attached.
type Mailer struct {
	sender Sender
	from   string
}

// New creates a mailer backed by a real SMTP dialer.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// NewWithSender creates a mailer with a custom sender. Used by tests.
func NewWithSender(sender Sender, from string) *Mailer {
	return &Mailer{sender: sender, from: from}
}

// SendReport attaches the PDF at pdfPath and sends it to the recipients on
// behalf of the named requester. The attachment is existence-checked first so
// a missing artifact surfaces as artifact.ErrNotFound, not a send error.
func (m *Mailer) SendReport(pdfPath, requesterName, eventName string, recipients []string) error {
	if _, err := os.Stat(pdfPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: attachment %s", artifact.ErrNotFound, pdfPath)
		}
		return fmt.Errorf("checking attachment: %w", err)
	}

	if len(recipients) == 0 {
		return fmt.Errorf("%w: no recipients for event %q", ErrDeliveryFailed, eventName)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", fmt.Sprintf("Event report: %s", eventName))
	msg.SetBody("text/plain", fmt.Sprintf(
		"%s requested the report for %q.\n\nThe rendered report is attached as a PDF.\n",
		requesterName, eventName,
	))
	msg.Attach(pdfPath, gomail.Rename(artifact.DownloadName(eventName)))

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return nil
}
