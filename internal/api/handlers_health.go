// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/biblioteca/internal/models"
)

// Health returns the overall service status.
//
// The service is "degraded" while the classifier has no model (every query
// is labeled Unknown) or while the Gemini breaker is open (every
// recommendation is a fallback message). Requests are still served.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	classifier := h.classifierState()
	breaker := h.breakerState()

	status := "healthy"
	if !classifier.Loaded || breaker == "open" {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:           status,
		Version:          Version,
		Uptime:           time.Since(h.startTime).Seconds(),
		Classifier:       classifier,
		RecommenderState: breaker,
		OCREnabled:       h.pipeline != nil && h.pipeline.OCREnabled(),
		SpeechEnabled:    h.pipeline != nil && h.pipeline.SpeechEnabled(),
	}

	respondSuccess(w, r, health)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 once the pipeline is wired and the classifier reports a
// status. A classifier without a model is still ready: it answers Unknown.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.pipeline != nil && h.classifier != nil

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"classifier_loaded": h.classifierState().Loaded,
			"recommender_state": h.breakerState(),
			"ready_to_serve":    ready,
			"uptime":            time.Since(h.startTime).Seconds(),
		},
		Metadata: newMetadata(r),
	})
}
