// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the logging context
  - Prometheus Metrics: request count, latency and in-flight instrumentation

Both are plain func(http.HandlerFunc) http.HandlerFunc wrappers so they can be
used directly or adapted into a Chi middleware chain:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

Request IDs supplied by an upstream proxy in X-Request-ID are kept when they
look sane; anything else is replaced with a fresh UUID.

Metrics are labeled with the Chi route pattern when one is available, so
path parameters never create new label values.
*/
package middleware
