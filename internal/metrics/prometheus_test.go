package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hamed0406/pingme/internal/domain"
)

func TestMetrics_ProbesAndCycles(t *testing.T) {
	m := New()
	now := time.Now()
	m.ObserveProbe(domain.Up(200, 20*time.Millisecond, now))
	m.ObserveProbe(domain.Timeout(now))
	m.ObserveProbe(domain.Timeout(now))
	m.ObserveCycle(3, 2, 150*time.Millisecond)
	m.CycleFailed()

	if got := testutil.ToFloat64(m.probes.WithLabelValues("timeout")); got != 2 {
		t.Fatalf("want 2 timeouts, got %v", got)
	}
	if got := testutil.ToFloat64(m.failing); got != 2 {
		t.Fatalf("want failing gauge 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.cycles); got != 1 {
		t.Fatalf("want 1 cycle, got %v", got)
	}
	if got := testutil.ToFloat64(m.cycleErrors); got != 1 {
		t.Fatalf("want 1 cycle error, got %v", got)
	}
}

func TestMetrics_Alerts(t *testing.T) {
	m := New()
	m.AlertSent("down", nil)
	m.AlertSent("down", errors.New("webhook 500"))
	if got := testutil.ToFloat64(m.alerts.WithLabelValues("down")); got != 2 {
		t.Fatalf("want 2 down alerts, got %v", got)
	}
	if got := testutil.ToFloat64(m.alertErrors); got != 1 {
		t.Fatalf("want 1 alert error, got %v", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveProbe(domain.Timeout(time.Now()))
	m.ObserveCycle(1, 1, time.Second)
	m.CycleFailed()
	m.AlertSent("clear", nil)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("want 404 from nil metrics, got %d", rr.Code)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveCycle(1, 0, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "pingme_cycles_total 1") {
		t.Fatalf("cycles counter missing from exposition")
	}
}
