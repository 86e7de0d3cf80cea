// Package metrics exposes import pipeline counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kakeibo/internal/models"
)

const namespace = "kakeibo"

// Metrics records upload and auto-assign outcomes on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	uploads        *prometheus.CounterVec
	rows           *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	uploadDuration *prometheus.HistogramVec
	assignRuns     prometheus.Counter
	assigned       prometheus.Counter
	considered     prometheus.Counter
}

// New creates Metrics with process and Go collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Statements imported, by vendor.",
		}, []string{"vendor"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_rows_total",
			Help:      "Parsed rows by vendor and persistence outcome.",
		}, []string{"vendor", "outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_rejections_total",
			Help:      "Uploads rejected before persistence, by reason.",
		}, []string{"reason"}),
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Time spent importing a statement.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"vendor"}),
		assignRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_assign_runs_total",
			Help:      "Bulk classification passes.",
		}),
		assigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_assign_assigned_total",
			Help:      "Transactions given a category by bulk classification.",
		}),
		considered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_assign_considered_total",
			Help:      "Uncategorized transactions examined by bulk classification.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uploads, m.rows, m.rejections, m.uploadDuration,
		m.assignRuns, m.assigned, m.considered,
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveUpload records a completed upload.
func (m *Metrics) ObserveUpload(result models.UploadResult, elapsed time.Duration) {
	vendor := string(result.Vendor)
	m.uploads.WithLabelValues(vendor).Inc()
	m.rows.WithLabelValues(vendor, "inserted").Add(float64(result.Success))
	m.rows.WithLabelValues(vendor, "duplicate").Add(float64(result.Duplicate))
	m.rows.WithLabelValues(vendor, "failed").Add(float64(result.Failed))
	m.uploadDuration.WithLabelValues(vendor).Observe(elapsed.Seconds())
}

// ObserveRejection records an upload rejected before persistence.
func (m *Metrics) ObserveRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

// ObserveAssign records a bulk classification pass.
func (m *Metrics) ObserveAssign(result models.AssignResult) {
	m.assignRuns.Inc()
	m.assigned.Add(float64(result.Assigned))
	m.considered.Add(float64(result.Total))
}
