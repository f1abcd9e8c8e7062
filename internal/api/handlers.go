// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package api

import (
	"context"
	"time"

	"github.com/tomtom215/biblioteca/internal/config"
	"github.com/tomtom215/biblioteca/internal/genre"
	"github.com/tomtom215/biblioteca/internal/models"
	"github.com/tomtom215/biblioteca/internal/pipeline"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

// RecommendationPipeline is the part of pipeline.Service the handlers use.
type RecommendationPipeline interface {
	Process(ctx context.Context, text string) (pipeline.Recommendation, error)
	ProcessImage(ctx context.Context, image []byte) (pipeline.Recommendation, error)
	ProcessAudio(ctx context.Context, audio []byte) (pipeline.Recommendation, error)
	OCREnabled() bool
	SpeechEnabled() bool
}

// ClassifierStatus reports the genre model in service.
type ClassifierStatus interface {
	Status() genre.Status
}

// BreakerStatus reports the Gemini circuit breaker state.
type BreakerStatus interface {
	State() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response envelope and request decoding
//   - handlers_health.go: health and readiness probes
//   - handlers_recommend.go: text, image and audio recommendations
//   - handlers_genres.go: label catalog
type Handler struct {
	pipeline       RecommendationPipeline
	classifier     ClassifierStatus
	breaker        BreakerStatus // optional
	maxUploadBytes int64
	startTime      time.Time
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(svc, classifier, breaker, cfg)
//	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.API)))
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(p RecommendationPipeline, classifier ClassifierStatus, breaker BreakerStatus, cfg *config.Config) *Handler {
	maxUpload := int64(10 << 20)
	if cfg != nil && cfg.Server.MaxUploadBytes > 0 {
		maxUpload = cfg.Server.MaxUploadBytes
	}
	return &Handler{
		pipeline:       p,
		classifier:     classifier,
		breaker:        breaker,
		maxUploadBytes: maxUpload,
		startTime:      time.Now(),
	}
}

// classifierState converts the classifier status into its API form.
func (h *Handler) classifierState() models.ClassifierState {
	if h.classifier == nil {
		return models.ClassifierState{}
	}
	st := h.classifier.Status()
	state := models.ClassifierState{
		Loaded:     st.Loaded,
		ModelPath:  st.ModelPath,
		Vocabulary: st.Vocabulary,
		Examples:   st.Examples,
	}
	if !st.TrainedAt.IsZero() {
		trainedAt := st.TrainedAt
		state.TrainedAt = &trainedAt
	}
	if !st.LoadedAt.IsZero() {
		loadedAt := st.LoadedAt
		state.LoadedAt = &loadedAt
	}
	return state
}

// breakerState returns the breaker state, or "none" when no breaker is wired.
func (h *Handler) breakerState() string {
	if h.breaker == nil {
		return "none"
	}
	return h.breaker.State()
}
