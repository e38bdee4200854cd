// internal/mailer/smtp.go
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	domain string
}

func NewSMTPMailer(host string, port int, username, password, from, domain string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		domain: domain,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) (Result, error) {
	messageID := generateMessageID(m.domain)

	mail := gomail.NewMessage()
	mail.SetHeader("Message-ID", messageID)
	mail.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Text)
	mail.AddAlternative("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(mail); err != nil {
		return Result{}, fmt.Errorf("smtp send: %w", err)
	}

	return Result{MessageID: messageID}, nil
}

func generateMessageID(domain string) string {
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}
