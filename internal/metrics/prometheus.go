package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the transcriber.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline metrics
	Runs            *prometheus.CounterVec
	CleanupFailures prometheus.Counter

	// Audio chunking metrics
	ChunksGenerated *prometheus.CounterVec
	ChunkDuration   prometheus.Histogram

	// Transcription metrics
	TranscriptionAttempts  prometheus.Counter
	TranscriptionOutcomes  *prometheus.CounterVec
	TranscriptionDuration  prometheus.Histogram
	TranscriptionRetries   prometheus.Counter
	TranscriptionFragments prometheus.Counter

	// Translation metrics
	Translations *prometheus.CounterVec
}

// NewMetrics creates all metrics on a fresh private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcriber_runs_total",
			Help: "Total number of pipeline runs by route",
		}, []string{"route"}),
		CleanupFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_cleanup_failures_total",
			Help: "Total number of temporary directories that could not be removed",
		}),

		ChunksGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcriber_chunks_generated_total",
			Help: "Total number of audio chunks written, by segmentation strategy",
		}, []string{"strategy"}),
		ChunkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcriber_chunk_duration_seconds",
			Help:    "Duration of generated audio chunks",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4 minutes
		}),

		TranscriptionAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_recognition_attempts_total",
			Help: "Total number of speech recognition calls",
		}),
		TranscriptionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcriber_recognition_outcomes_total",
			Help: "Speech recognition results by outcome",
		}, []string{"outcome"}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcriber_recognition_duration_seconds",
			Help:    "Duration of speech recognition calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1 minute
		}),
		TranscriptionRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_recognition_retries_total",
			Help: "Total number of speech recognition retries",
		}),
		TranscriptionFragments: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_fragments_total",
			Help: "Total number of transcript fragments obtained",
		}),

		Translations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcriber_translations_total",
			Help: "Translation requests by result",
		}, []string{"result"}),
	}
}

// Registry exposes the underlying registry as a gatherer
func (m *Metrics) Registry() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in text exposition format for the
// node_exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}

	return nil
}

// RecordRun counts a pipeline run on the given route
func (m *Metrics) RecordRun(route string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(route).Inc()
}

// RecordCleanupFailure counts a temporary directory that was left behind
func (m *Metrics) RecordCleanupFailure() {
	if m == nil {
		return
	}
	m.CleanupFailures.Inc()
}

// RecordChunkGenerated records a written audio chunk
func (m *Metrics) RecordChunkGenerated(strategy string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ChunksGenerated.WithLabelValues(strategy).Inc()
	m.ChunkDuration.Observe(durationSeconds)
}

// RecordRecognition records one recognition call and its outcome
func (m *Metrics) RecordRecognition(outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.TranscriptionAttempts.Inc()
	m.TranscriptionOutcomes.WithLabelValues(outcome).Inc()
	m.TranscriptionDuration.Observe(durationSeconds)
}

// RecordRetry increments the retry counter
func (m *Metrics) RecordRetry() {
	if m == nil {
		return
	}
	m.TranscriptionRetries.Inc()
}

// RecordFragment counts a transcript fragment
func (m *Metrics) RecordFragment() {
	if m == nil {
		return
	}
	m.TranscriptionFragments.Inc()
}

// RecordTranslation records a translation result ("success" or "failure")
func (m *Metrics) RecordTranslation(result string) {
	if m == nil {
		return
	}
	m.Translations.WithLabelValues(result).Inc()
}
