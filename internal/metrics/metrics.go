// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package metrics registers the Prometheus collectors exported on /metrics.
//
// Collectors cover:
//   - API endpoint latency and throughput
//   - Pipeline outcomes per input source
//   - Genre classifier predictions and model reloads
//   - Gemini calls and the circuit breaker in front of them
//   - OCR and speech adapters
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Pipeline Metrics
	PipelineRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biblioteca_pipeline_requests_total",
			Help: "Total number of pipeline runs by input source and outcome",
		},
		[]string{"source", "outcome"}, // outcome: "ok", "degraded", "rejected", "adapter_error"
	)

	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biblioteca_validation_rejections_total",
			Help: "Total number of inputs rejected by the normalizer",
		},
		[]string{"reason"}, // "too_short", "no_valid_words"
	)

	// Classifier Metrics
	ClassifierPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biblioteca_classifier_predictions_total",
			Help: "Total number of genre predictions by resulting label",
		},
		[]string{"genre"},
	)

	ClassifierModelLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biblioteca_classifier_model_loads_total",
			Help: "Total number of model load attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	ClassifierVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "biblioteca_classifier_vocabulary_size",
			Help: "Number of features in the currently loaded model",
		},
	)

	// Recommender Metrics
	RecommenderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biblioteca_recommender_requests_total",
			Help: "Total number of Gemini recommendation calls by result",
		},
		[]string{"result"}, // "success", "empty", "status", "transport", "circuit_open"
	)

	RecommenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "biblioteca_recommender_duration_seconds",
			Help:    "Gemini call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 60},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Adapter Metrics (OCR and speech)
	AdapterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biblioteca_adapter_requests_total",
			Help: "Total number of OCR and speech adapter calls",
		},
		[]string{"adapter", "result"}, // adapter: "ocr", "speech"
	)

	AdapterDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "biblioteca_adapter_duration_seconds",
			Help:    "OCR and speech adapter call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"adapter"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPipeline records the outcome of one pipeline run.
func RecordPipeline(source, outcome string) {
	PipelineRequests.WithLabelValues(source, outcome).Inc()
}

// RecordValidationRejection records an input the normalizer refused.
func RecordValidationRejection(reason string) {
	ValidationRejections.WithLabelValues(reason).Inc()
}

// RecordPrediction records the label returned by the classifier.
func RecordPrediction(genre string) {
	ClassifierPredictions.WithLabelValues(genre).Inc()
}

// RecordModelLoad records a model load attempt and, on success, the
// vocabulary size of the model now in service.
func RecordModelLoad(vocabularySize int, err error) {
	if err != nil {
		ClassifierModelLoads.WithLabelValues("failure").Inc()
		return
	}
	ClassifierModelLoads.WithLabelValues("success").Inc()
	ClassifierVocabularySize.Set(float64(vocabularySize))
}

// RecordRecommendation records one Gemini call.
func RecordRecommendation(result string, duration time.Duration) {
	RecommenderRequests.WithLabelValues(result).Inc()
	RecommenderDuration.Observe(duration.Seconds())
}

// RecordAdapterCall records one OCR or speech adapter call.
func RecordAdapterCall(adapter string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AdapterRequests.WithLabelValues(adapter, result).Inc()
	AdapterDuration.WithLabelValues(adapter).Observe(duration.Seconds())
}
