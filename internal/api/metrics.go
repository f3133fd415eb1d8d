// ABOUTME: Prometheus instruments for rebuilds and uploads.
// ABOUTME: Each Metrics owns its registry so servers and tests never collide.
package api

import (
	"net/http"

	"github.com/harperreed/liftlog/internal/merge"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "liftlog"

// Metrics groups the instruments exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	rebuilds       prometheus.Counter
	records        *prometheus.GaugeVec
	loadFailures   *prometheus.CounterVec
	uploads        *prometheus.CounterVec
	uploadRejected prometheus.Counter
}

// NewMetrics creates and registers the instruments on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "rebuilds_total",
			Help:      "Number of canonical record set rebuilds.",
		}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "records",
			Help:      "Set records contributed by each source in the latest rebuild.",
		}, []string{"source"}),
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "source_failures_total",
			Help:      "Sources skipped during rebuild because they failed to load, labeled by source.",
		}, []string{"source"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "stored_total",
			Help:      "Raw exports accepted and stored, labeled by detected source.",
		}, []string{"source"}),
		uploadRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "rejected_total",
			Help:      "Uploads rejected because their format could not be detected.",
		}),
	}

	m.registry.MustRegister(
		m.rebuilds, m.records, m.loadFailures, m.uploads, m.uploadRejected,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRebuild records the outcome of one rebuild.
func (m *Metrics) ObserveRebuild(res *merge.Result) {
	m.rebuilds.Inc()
	for _, src := range models.AllSources {
		m.records.WithLabelValues(src.Key()).Set(float64(res.PerSource[src]))
	}
	for _, f := range res.Failures {
		label := "unknown"
		if f.Source != "" {
			label = f.Source.Key()
		}
		m.loadFailures.WithLabelValues(label).Inc()
	}
}

// ObserveUpload counts a stored upload.
func (m *Metrics) ObserveUpload(src models.Source) {
	m.uploads.WithLabelValues(src.Key()).Inc()
}

// ObserveRejectedUpload counts an upload whose format was not recognized.
func (m *Metrics) ObserveRejectedUpload() {
	m.uploadRejected.Inc()
}
