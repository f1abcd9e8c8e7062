// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

/*
Package api provides the HTTP REST API layer for Biblioteca.

Every endpoint returns the same JSON envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "request_id": "..."}}
	{"status": "error", "data": null, "error": {"code": "...", "message": "..."}, "metadata": {...}}

Endpoints:

	POST /api/v1/recommendations/text    {"text": "..."}
	POST /api/v1/recommendations/image   multipart field "image" (JPEG or PNG)
	POST /api/v1/recommendations/audio   multipart field "audio" (WAV, MP3 or M4A)
	GET  /api/v1/genres                  label set and classifier status
	GET  /api/v1/health                  overall status
	GET  /api/v1/health/live             liveness probe
	GET  /api/v1/health/ready            readiness probe
	GET  /metrics                        Prometheus exposition

A rejected query (too short, no letters) is a 422 whose message is the
Spanish text shown to end users. Classifier and Gemini problems are not
errors: the recommendation still returns 200 with classifier_degraded or
recommendation_failed set.

Usage Example:

	handler := api.NewHandler(svc, classifier, breaker, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.API)))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
