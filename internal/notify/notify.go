package notify

import (
	"context"

	"go.uber.org/multierr"
)

type Severity string

const (
	SeverityDown  Severity = "down"
	SeverityClear Severity = "clear"
)

// Color is the chat color conventionally used for the severity.
func (s Severity) Color() string {
	if s == SeverityClear {
		return "green"
	}
	return "red"
}

type Alert struct {
	Severity Severity
	Target   string // empty for fleet-wide alerts
	Text     string
}

// Notifier delivers an alert to an external channel. Callers treat delivery as
// fire-and-forget: errors are logged, never retried.
type Notifier interface {
	Send(ctx context.Context, a Alert) error
}

type Multi []Notifier

func (m Multi) Send(ctx context.Context, a Alert) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, a))
	}
	return err
}
