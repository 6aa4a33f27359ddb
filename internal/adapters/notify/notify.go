// Package notify delivers user-facing messages about collection replacements.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Level is the outcome a notification reports.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelFailure Level = "failure"
)

// Notification is one user-visible message.
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier delivers notifications. Implementations must not block for long
// and must not fail the caller; delivery problems stay inside the sink.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, n Notification)

// Notify calls f(ctx, n).
func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// New builds a notification with a fresh ID and the current time.
func New(level Level, title, message string) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Title:   title,
		Message: message,
		At:      time.Now().UTC(),
	}
}

// Success builds a success notification.
func Success(title, message string) Notification {
	return New(LevelSuccess, title, message)
}

// Failure builds a failure notification.
func Failure(title, message string) Notification {
	return New(LevelFailure, title, message)
}

type nop struct{}

func (nop) Notify(context.Context, Notification) {}

// Nop returns a notifier that drops everything.
func Nop() Notifier { return nop{} }

type multi []Notifier

func (m multi) Notify(ctx context.Context, n Notification) {
	for _, s := range m {
		s.Notify(ctx, n)
	}
}

// Multi fans a notification out to every non-nil sink in order.
func Multi(sinks ...Notifier) Notifier {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
