// Package email delivers committee notifications through an external provider.
package email

import (
	"context"
)

// Message is one outbound email.
type Message struct {
	To      []string
	From    string // empty selects the sender's default
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages and returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
