// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package models

import "time"

// MaxQueryLength bounds the text accepted by the text recommendation endpoint.
const MaxQueryLength = 5000

// TextRecommendationRequest is the body of POST /api/v1/recommendations/text.
// An empty text is accepted here and rejected by the pipeline normalizer, so
// the caller gets the same Spanish message the other input paths return.
type TextRecommendationRequest struct {
	Text string `json:"text" validate:"max=5000"`
}

// RecommendationResponse is the result of one recommendation pipeline run.
type RecommendationResponse struct {
	// Query is the text that was classified, after OCR or transcription.
	Query string `json:"query"`
	// Genre is one of the six genre labels or a sentinel
	// ("Unknown", "PredictionError").
	Genre string `json:"genre"`
	// Recommendation is the Gemini reply, an empty-response notice, or a
	// connection error message when RecommendationFailed is set.
	Recommendation string `json:"recommendation"`
	Source         string `json:"source"`
	// SourceText is the raw OCR or transcription output for image and audio input.
	SourceText           string `json:"source_text,omitempty"`
	ClassifierDegraded   bool   `json:"classifier_degraded"`
	RecommendationFailed bool   `json:"recommendation_failed"`
	FailureKind          string `json:"failure_kind,omitempty"`
}

// GenresResponse lists the closed label set and the classifier state.
type GenresResponse struct {
	Genres     []string        `json:"genres"`
	Sentinels  []string        `json:"sentinels"`
	Classifier ClassifierState `json:"classifier"`
}

// ClassifierState describes the model currently in service.
type ClassifierState struct {
	Loaded     bool       `json:"loaded"`
	ModelPath  string     `json:"model_path,omitempty"`
	Vocabulary int        `json:"vocabulary_size"`
	Examples   int        `json:"training_examples"`
	TrainedAt  *time.Time `json:"trained_at,omitempty"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
}

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	// Status is "healthy" or "degraded". Degraded means requests are still
	// served but the classifier returns Unknown or the breaker is open.
	Status           string          `json:"status"`
	Version          string          `json:"version"`
	Uptime           float64         `json:"uptime"`
	Classifier       ClassifierState `json:"classifier"`
	RecommenderState string          `json:"recommender_state"`
	OCREnabled       bool            `json:"ocr_enabled"`
	SpeechEnabled    bool            `json:"speech_enabled"`
}
