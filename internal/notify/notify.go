package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"serverwatch/internal/health"
)

// Alert carries one status event to the delivery channels.
type Alert struct {
	ServerName string
	Host       string
	Status     health.Status
	Detail     string
	At         time.Time
}

// Channel is one delivery backend (SMS, email, ...). Channels are
// interchangeable; the Chain decides ordering and fallback.
type Channel interface {
	Name() string
	Send(ctx context.Context, a Alert) error
}

// Chain tries each channel in order and stops at the first success.
// Nil entries are skipped so optional channels can be appended
// unconditionally.
type Chain []Channel

// Send returns the name of the channel that delivered the alert, or
// the combined errors of every channel that was tried.
func (c Chain) Send(ctx context.Context, a Alert) (string, error) {
	var errs error
	for _, ch := range c {
		if ch == nil {
			continue
		}
		if err := ch.Send(ctx, a); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		return ch.Name(), nil
	}
	if errs == nil {
		errs = errors.New("no notification channels configured")
	}
	return "", errs
}
