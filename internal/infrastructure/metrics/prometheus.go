package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	collector *Collector

	// Prometheus metrics
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
	reconcilePasses     prometheus.Counter
	reconcileErrors     prometheus.Counter
	reconcileCoalesced  prometheus.Counter
	reconcileStale      prometheus.Counter
	reconcileDuration   prometheus.Histogram
	grantsCreated       prometheus.Counter
	grantsRejected      *prometheus.CounterVec
	activeSubscriptions prometheus.Gauge
}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter(collector *Collector) *PrometheusExporter {
	return &PrometheusExporter{
		collector: collector,
		httpRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crudmaker_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route"},
		),
		httpDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crudmaker_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"route"},
		),
		httpErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crudmaker_http_errors_total",
				Help: "Total number of HTTP error responses",
			},
			[]string{"route"},
		),
		reconcilePasses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudmaker_reconcile_passes_total",
			Help: "Total number of completed reconciliation passes",
		}),
		reconcileErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudmaker_reconcile_errors_total",
			Help: "Total number of failed reconciliation passes",
		}),
		reconcileCoalesced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudmaker_reconcile_coalesced_total",
			Help: "Total number of triggers collapsed into an already pending pass",
		}),
		reconcileStale: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudmaker_reconcile_stale_discards_total",
			Help: "Total number of passes discarded because a newer trigger arrived mid-flight",
		}),
		reconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "crudmaker_reconcile_duration_seconds",
			Help:    "Duration of reconciliation passes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),
		grantsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudmaker_grants_created_total",
			Help: "Total number of share grants created",
		}),
		grantsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crudmaker_grants_rejected_total",
				Help: "Total number of rejected grant attempts",
			},
			[]string{"reason"},
		),
		activeSubscriptions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "crudmaker_active_subscriptions",
			Help: "Current number of active realtime sessions",
		}),
	}
}

// RecordRequest records a request in Prometheus.
func (e *PrometheusExporter) RecordRequest(route string) {
	e.httpRequests.WithLabelValues(route).Inc()
}

// RecordDuration records a duration in Prometheus.
func (e *PrometheusExporter) RecordDuration(route string, durationSeconds float64) {
	e.httpDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordError records an error in Prometheus.
func (e *PrometheusExporter) RecordError(route string) {
	e.httpErrors.WithLabelValues(route).Inc()
}

// RecordPass records a completed reconciliation pass.
func (e *PrometheusExporter) RecordPass(durationSeconds float64) {
	e.reconcilePasses.Inc()
	e.reconcileDuration.Observe(durationSeconds)
}

// RecordPassError records a failed reconciliation pass.
func (e *PrometheusExporter) RecordPassError() {
	e.reconcileErrors.Inc()
}

// RecordCoalesced records a coalesced trigger.
func (e *PrometheusExporter) RecordCoalesced() {
	e.reconcileCoalesced.Inc()
}

// RecordStaleDiscard records a discarded stale pass.
func (e *PrometheusExporter) RecordStaleDiscard() {
	e.reconcileStale.Inc()
}

// RecordGrantCreated records a successfully created grant.
func (e *PrometheusExporter) RecordGrantCreated() {
	e.grantsCreated.Inc()
}

// RecordGrantRejected records a rejected grant attempt.
func (e *PrometheusExporter) RecordGrantRejected(reason string) {
	e.grantsRejected.WithLabelValues(reason).Inc()
}

// SessionStarted increments the active subscription gauge.
func (e *PrometheusExporter) SessionStarted() {
	e.activeSubscriptions.Inc()
}

// SessionEnded decrements the active subscription gauge.
func (e *PrometheusExporter) SessionEnded() {
	e.activeSubscriptions.Dec()
}
