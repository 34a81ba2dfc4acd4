package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log writes alerts to the service log. Used when no chat webhook is set.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(_ context.Context, a Alert) error {
	l.Logger.Warn("alert",
		zap.String("severity", string(a.Severity)),
		zap.String("color", a.Severity.Color()),
		zap.String("target", a.Target),
		zap.String("text", a.Text),
	)
	return nil
}
