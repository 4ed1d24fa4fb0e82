// Package notify delivers change notifications to external endpoints.
package notify

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/google/uuid"
)

// Notification describes one confirmed change.
type Notification struct {
	ID        string
	Text      string
	Timestamp time.Time
	Width     int
	Height    int
}

// New builds a notification for a change observed at ts in a frame with
// the given bounds.
func New(text string, bounds image.Rectangle, ts time.Time) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Text:      text,
		Timestamp: ts,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}
}

// Notifier sends a notification. Each call is a single attempt.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Multi sends to every notifier in order, even when an earlier one fails.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, nt := range m {
		if err := nt.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
