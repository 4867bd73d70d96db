// Package notify keeps short-lived, per-session user notifications.
//
// Every message lives for a fixed Lifetime and is removed independently of
// the others; identical messages are never merged.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lifetime is how long a message stays visible.
const Lifetime = 5 * time.Second

// Severity tags a message for styling.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Message is a single notification.
type Message struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Remaining reports how long the message stays visible after now.
func (m Message) Remaining(now time.Time) time.Duration {
	if d := m.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Center stores notifications keyed by browser session.
type Center interface {
	Push(ctx context.Context, key string, severity Severity, text string) (Message, error)
	Active(ctx context.Context, key string) ([]Message, error)
}

func newMessage(now time.Time, severity Severity, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Severity:  severity,
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(Lifetime),
	}
}
