// Package mailer is the email-sending capability consumed by the delivery
// use case, with SES and SMTP implementations behind one interface.
package mailer

import "context"

// Message is one outbound email with both HTML and plain-text bodies.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Result carries the provider's message identifier for a delivered email.
type Result struct {
	MessageID string
}

// Mailer sends one message. Implementations must not retry internally; the
// job runner owns the retry policy.
type Mailer interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
