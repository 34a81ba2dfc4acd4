// Package metrics exposes poller activity as Prometheus metrics. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamed0406/pingme/internal/domain"
)

const namespace = "pingme"

type Metrics struct {
	registry *prometheus.Registry

	cycles        prometheus.Counter
	cycleErrors   prometheus.Counter
	cycleDuration prometheus.Histogram
	targets       prometheus.Gauge
	failing       prometheus.Gauge
	probes        *prometheus.CounterVec
	responseTime  prometheus.Histogram
	alerts        *prometheus.CounterVec
	alertErrors   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cycles_total",
			Help: "Completed polling cycles.",
		}),
		cycleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cycle_errors_total",
			Help: "Cycles aborted because the target registry could not be read.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "cycle_duration_seconds",
			Help:    "Wall time of a polling cycle.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		targets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "targets",
			Help: "Targets probed in the last cycle.",
		}),
		failing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "failing_targets",
			Help: "Targets failing in the last cycle.",
		}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "probes_total",
			Help: "Probe outcomes by kind.",
		}, []string{"kind"}),
		responseTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "response_time_seconds",
			Help:    "Time to response headers for probes that got an answer.",
			Buckets: prometheus.DefBuckets,
		}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "alerts_total",
			Help: "Alerts emitted by severity.",
		}, []string{"severity"}),
		alertErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "alert_errors_total",
			Help: "Alerts the notification sink failed to deliver.",
		}),
	}
	m.registry.MustRegister(
		m.cycles, m.cycleErrors, m.cycleDuration, m.targets, m.failing,
		m.probes, m.responseTime, m.alerts, m.alertErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry for use with HTTP handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveProbe(st domain.Status) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(st.Kind.String()).Inc()
	if st.Kind == domain.KindOK || st.Kind == domain.KindHTTP {
		m.responseTime.Observe(st.ResponseTime.Seconds())
	}
}

func (m *Metrics) ObserveCycle(targets, failing int, took time.Duration) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.targets.Set(float64(targets))
	m.failing.Set(float64(failing))
	m.cycleDuration.Observe(took.Seconds())
}

func (m *Metrics) CycleFailed() {
	if m == nil {
		return
	}
	m.cycleErrors.Inc()
}

func (m *Metrics) AlertSent(severity string, err error) {
	if m == nil {
		return
	}
	m.alerts.WithLabelValues(severity).Inc()
	if err != nil {
		m.alertErrors.Inc()
	}
}
