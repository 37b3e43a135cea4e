// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analysis Metrics
	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_analysis_requests_total",
			Help: "Total number of mood analysis requests",
		},
		[]string{"operation", "result"}, // result: "success", "error"
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mood_analysis_duration_seconds",
			Help:    "Duration of mood analysis operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	AnalysisConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mood_analysis_confidence",
			Help:    "Confidence of completed mood analyses",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	// Suggestion Metrics
	SuggestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggestion_duration_seconds",
			Help:    "Duration of suggestion generation in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	SuggestionResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suggestion_result_count",
			Help:    "Number of suggestions returned per request",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "suggestion"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of eager cache invalidations",
		},
		[]string{"cache_type"},
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "network_training_duration_seconds",
			Help:    "Duration of network training runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "network_training_runs_total",
			Help: "Total number of network training runs",
		},
		[]string{"result"}, // "success", "error", "skipped"
	)

	// Resonance Metrics
	ResonanceRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resonance_records_total",
			Help: "Total number of session resonance records",
		},
	)

	ResonanceAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_system_accuracy",
			Help: "System-wide prediction accuracy from resonance feedback",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordAnalysis records one engine operation with its outcome.
func RecordAnalysis(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	AnalysisRequests.WithLabelValues(operation, result).Inc()
	AnalysisDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSuggestions records a suggestion request.
func RecordSuggestions(duration time.Duration, count int) {
	SuggestionDuration.Observe(duration.Seconds())
	SuggestionResults.Observe(float64(count))
}

// RecordTraining records one training run.
func RecordTraining(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	TrainingRuns.WithLabelValues(result).Inc()
	TrainingDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
