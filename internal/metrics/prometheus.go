package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the audio-to-PDF service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Pipeline metrics
	RunsStarted   prometheus.Counter
	RunsCompleted *prometheus.CounterVec
	ActiveRuns    prometheus.Gauge
	StageDuration *prometheus.HistogramVec
	RunDuration   prometheus.Histogram

	// Transcription metrics
	TranscriptionOutcomes *prometheus.CounterVec

	// Document metrics
	DocumentSize       prometheus.Histogram
	DocumentParagraphs prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates all metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "a2p_runs_started_total",
			Help: "Total number of pipeline runs started",
		}),
		RunsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "a2p_runs_completed_total",
			Help: "Total number of pipeline runs finished, by outcome",
		}, []string{"outcome"}),
		ActiveRuns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "a2p_active_runs",
			Help: "Current number of pipeline runs in progress",
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "a2p_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4 minutes
		}, []string{"stage"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "a2p_run_duration_seconds",
			Help:    "Duration of complete pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7 minutes
		}),

		TranscriptionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "a2p_transcription_outcomes_total",
			Help: "Transcription results by provider and kind",
		}, []string{"provider", "kind"}),

		DocumentSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "a2p_document_size_bytes",
			Help:    "Size of generated PDF documents",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 12), // 1KB to ~4MB
		}),
		DocumentParagraphs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "a2p_document_paragraphs",
			Help:    "Number of paragraphs laid out per document",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "a2p_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "a2p_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordRunStarted increments the started counter and the active gauge
func (m *Metrics) RecordRunStarted() {
	if m == nil {
		return
	}
	m.RunsStarted.Inc()
	m.ActiveRuns.Inc()
}

// RecordRunFinished records the outcome of a run and its duration
func (m *Metrics) RecordRunFinished(outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ActiveRuns.Dec()
	m.RunsCompleted.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(durationSeconds)
}

// RecordStage records how long a stage took
func (m *Metrics) RecordStage(stage string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordTranscription counts a transcription result
func (m *Metrics) RecordTranscription(provider, kind string) {
	if m == nil {
		return
	}
	if provider == "" {
		provider = "unknown"
	}
	m.TranscriptionOutcomes.WithLabelValues(provider, kind).Inc()
}

// RecordDocument records the size and paragraph count of a generated PDF
func (m *Metrics) RecordDocument(sizeBytes int64, paragraphs int) {
	if m == nil {
		return
	}
	m.DocumentSize.Observe(float64(sizeBytes))
	m.DocumentParagraphs.Observe(float64(paragraphs))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
