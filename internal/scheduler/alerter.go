package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/hamed0406/pingme/internal/metrics"
	"github.com/hamed0406/pingme/internal/notify"
)

const clearText = "All websites are now online."

// Alerter turns per-cycle failing sets into edge-triggered notifications.
//
// It remembers only the previous cycle's failing set. Observe is called by
// the coordinator goroutine alone; the mutex exists so Failing can be read
// from elsewhere.
type Alerter struct {
	logger   *zap.Logger
	notifier notify.Notifier
	metrics  *metrics.Metrics

	mu   sync.Mutex
	prev map[string]struct{}
}

func NewAlerter(logger *zap.Logger, notifier notify.Notifier, m *metrics.Metrics) *Alerter {
	return &Alerter{
		logger:   logger,
		notifier: notifier,
		metrics:  m,
		prev:     map[string]struct{}{},
	}
}

// Observe compares current with the previous failing set and sends:
//   - one "down" alert per name that is failing now but was not before;
//   - one "clear" alert when the set empties after being non-empty.
//
// The previous set is replaced by current whether or not delivery succeeds.
// It returns the alerts it attempted to send.
func (a *Alerter) Observe(ctx context.Context, current map[string]struct{}, targets map[string]string) []notify.Alert {
	a.mu.Lock()
	prev := a.prev
	next := make(map[string]struct{}, len(current))
	for name := range current {
		next[name] = struct{}{}
	}
	a.prev = next
	a.mu.Unlock()

	var alerts []notify.Alert
	for _, name := range sortedNames(current) {
		if _, seen := prev[name]; seen {
			continue
		}
		alerts = append(alerts, notify.Alert{
			Severity: notify.SeverityDown,
			Target:   name,
			Text:     fmt.Sprintf("Status Check Failing for website %s at url %s. Please investigate.", name, targets[name]),
		})
	}
	if len(prev) > 0 && len(current) == 0 {
		alerts = append(alerts, notify.Alert{Severity: notify.SeverityClear, Text: clearText})
	}

	for _, al := range alerts {
		err := a.notifier.Send(ctx, al)
		a.metrics.AlertSent(string(al.Severity), err)
		if err != nil {
			a.logger.Warn("alert_send_error",
				zap.String("severity", string(al.Severity)),
				zap.String("target", al.Target),
				zap.Error(err),
			)
			continue
		}
		a.logger.Info("alert_sent",
			zap.String("severity", string(al.Severity)),
			zap.String("target", al.Target),
		)
	}
	return alerts
}

// Failing returns the names that failed in the last observed cycle, sorted.
func (a *Alerter) Failing() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return sortedNames(a.prev)
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
