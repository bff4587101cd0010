package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transcription outcomes used as the "outcome" label.
const (
	OutcomeSuccess       = "success"
	OutcomeEmpty         = "empty"
	OutcomeAuthError     = "auth_error"
	OutcomeUpstreamError = "upstream_error"
	OutcomeError         = "error"
)

// Metrics contains all Prometheus metrics for the web service
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Transcription metrics
	Transcriptions        *prometheus.CounterVec
	TranscriptionDuration *prometheus.HistogramVec
	UploadBytes           prometheus.Histogram
}

// NewMetrics creates all metrics on a private registry, so several servers
// can coexist in one process (tests).
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whisper_web_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "whisper_web_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		Transcriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whisper_web_transcriptions_total",
			Help: "Total number of remote transcription calls by outcome",
		}, []string{"provider", "outcome"}),
		TranscriptionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "whisper_web_transcription_duration_seconds",
			Help:    "Duration of remote transcription calls",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 12), // 250ms to ~8.5 minutes
		}, []string{"provider"}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "whisper_web_upload_bytes",
			Help:    "Size of accepted uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 12), // 16KB to ~32MB
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request. A nil receiver is a no-op.
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordTranscription records one remote call and its outcome.
func (m *Metrics) RecordTranscription(provider, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.Transcriptions.WithLabelValues(provider, outcome).Inc()
	m.TranscriptionDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordUpload records the size of a saved upload.
func (m *Metrics) RecordUpload(sizeBytes int64) {
	if m == nil {
		return
	}
	m.UploadBytes.Observe(float64(sizeBytes))
}
