// Package metrics exposes prometheus counters for backend calls, training
// runs and uploads.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kozaktomas/facedesk/internal/training"
)

const namespace = "facedesk"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry         *prometheus.Registry
	backendRequests  *prometheus.CounterVec
	backendDuration  *prometheus.HistogramVec
	trainingRuns     *prometheus.CounterVec
	trainingDuration prometheus.Histogram
	uploadFiles      *prometheus.CounterVec
}

// New creates a registry with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests sent to the face recognition backend.",
		}, []string{"method", "endpoint", "code"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of face recognition backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		trainingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_runs_total",
			Help:      "Finished training runs by result.",
		}, []string{"result"}),
		trainingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "training_duration_seconds",
			Help:      "Wall clock duration of finished training runs.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		}),
		uploadFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_files_total",
			Help:      "Uploaded files by validation result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.backendRequests,
		m.backendDuration,
		m.trainingRuns,
		m.trainingDuration,
		m.uploadFiles,
	)
	return m
}

// ObserveBackend records one backend request. Its signature matches facerec.Observer.
func (m *Metrics) ObserveBackend(method, endpoint string, status int, elapsed time.Duration) {
	endpoint = normalizeEndpoint(endpoint)
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.backendRequests.WithLabelValues(method, endpoint, code).Inc()
	m.backendDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// TrainingFinished records the terminal snapshot of a training run.
func (m *Metrics) TrainingFinished(s training.Snapshot) {
	m.trainingRuns.WithLabelValues(string(s.State)).Inc()
	if !s.StartedAt.IsZero() && !s.FinishedAt.IsZero() {
		m.trainingDuration.Observe(s.FinishedAt.Sub(s.StartedAt).Seconds())
	}
}

// UploadFiles records accepted and rejected files of one selection.
func (m *Metrics) UploadFiles(accepted, rejected int) {
	m.uploadFiles.WithLabelValues("accepted").Add(float64(accepted))
	m.uploadFiles.WithLabelValues("rejected").Add(float64(rejected))
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// normalizeEndpoint replaces numeric path segments with ":id" to keep label
// cardinality bounded, e.g. "person/4/name" -> "person/:id/name".
func normalizeEndpoint(endpoint string) string {
	segments := strings.Split(strings.Trim(endpoint, "/"), "/")
	for i, s := range segments {
		if _, err := strconv.Atoi(s); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
