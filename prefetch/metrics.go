package prefetch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for image preloading.
type Metrics struct {
	RequestsTotal *prometheus.CounterVec
	LoadDuration  prometheus.Histogram
	ErrorsTotal   *prometheus.CounterVec
	BatchesTotal  *prometheus.CounterVec
}

// NewMetrics constructs the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_requests_total",
			Help: "Image preload requests by outcome status.",
		},
		[]string{"status"},
	)
	loadDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prefetch_load_duration_seconds",
			Help:    "Latency of image loads issued by the prefetcher.",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_errors_total",
			Help: "Failed image preloads by error type.",
		},
		[]string{"error_type"},
	)
	batches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_batches_total",
			Help: "Settle-all preload batches by kind.",
		},
		[]string{"kind"},
	)

	if reg != nil {
		reg.MustRegister(requests, loadDuration, errorsTotal, batches)
	}

	return &Metrics{
		RequestsTotal: requests,
		LoadDuration:  loadDuration,
		ErrorsTotal:   errorsTotal,
		BatchesTotal:  batches,
	}
}

// IncRequest counts one settled preload.
func (m *Metrics) IncRequest(status Status) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(status.String()).Inc()
}

// ObserveDuration records an image load duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(d.Seconds())
}

// IncError counts a failure under its type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncBatch counts one settle-all batch.
func (m *Metrics) IncBatch(kind string) {
	if m == nil {
		return
	}
	m.BatchesTotal.WithLabelValues(kind).Inc()
}
