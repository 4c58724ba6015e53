package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// NoopSender logs and records messages without delivering them.
type NoopSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records msg.
func (s *NoopSender) Send(_ context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	id := fmt.Sprintf("noop-%d", len(s.sent))
	s.mu.Unlock()
	slog.Info("email_skipped", "provider", "noop", "message_id", id, "to", msg.To, "subject", msg.Subject)
	return id, nil
}

// Sent returns a copy of the recorded messages.
func (s *NoopSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
