// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/biblioteca/internal/middleware"
)

// apiPrefix is the versioned root of every JSON endpoint.
const apiPrefix = "/api/v1"

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the HTTP handler.
//
//	/api/v1/health[/live|/ready]        catalog limit
//	/api/v1/genres                      catalog limit, request metrics
//	/api/v1/recommendations/{text|image|audio}
//	                                    strict limit, request metrics
//	/metrics                            Prometheus exposition
func (router *Router) SetupChi() http.Handler {
	mw := router.chiMiddleware
	h := router.handler

	r := chi.NewRouter()

	// Request ID first so that every later log line and error body carries it.
	// CORS stays global to answer OPTIONS preflight on any path.
	r.Use(
		chiMiddleware(middleware.RequestID),
		chimiddleware.RealIP,
		RequestLogging(),
		chimiddleware.Recoverer,
		mw.CORS(),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimitHealth())
			r.Get("/health", h.Health)
			r.Get("/health/live", h.HealthLive)
			r.Get("/health/ready", h.HealthReady)

			r.With(chiMiddleware(middleware.PrometheusMetrics)).Get("/genres", h.Genres)
		})

		// Each call may reach OCR, whisper and Gemini.
		r.Route("/recommendations", func(r chi.Router) {
			r.Use(mw.RateLimit(), chiMiddleware(middleware.PrometheusMetrics))
			r.Post("/text", h.RecommendText)
			r.Post("/image", h.RecommendImage)
			r.Post("/audio", h.RecommendAudio)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
