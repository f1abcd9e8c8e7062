// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/biblioteca/internal/metrics"
)

func requestCount(method, endpoint string, status int) float64 {
	return testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)))
}

func TestPrometheusMetrics_StatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"ok", http.MethodGet, "/mw-test/ok", http.StatusOK},
		{"created", http.MethodPost, "/mw-test/created", http.StatusCreated},
		{"bad request", http.MethodPost, "/mw-test/bad", http.StatusBadRequest},
		{"server error", http.MethodGet, "/mw-test/fail", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			before := requestCount(tt.method, tt.path, tt.status)

			handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if delta := requestCount(tt.method, tt.path, tt.status) - before; delta != 1 {
				t.Errorf("request counter delta = %v, want 1", delta)
			}
		})
	}
}

func TestPrometheusMetrics_ImplicitOK(t *testing.T) {
	t.Parallel()

	const path = "/mw-test/implicit"
	before := requestCount(http.MethodGet, path, http.StatusOK)

	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

	if delta := requestCount(http.MethodGet, path, http.StatusOK) - before; delta != 1 {
		t.Errorf("request counter delta = %v, want 1", delta)
	}
}

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	t.Parallel()

	const pattern = "/mw-test/items/{id}"
	before := requestCount(http.MethodGet, pattern, http.StatusNoContent)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return PrometheusMetrics(next.ServeHTTP)
	})
	r.Get(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mw-test/items/"+id, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	if delta := requestCount(http.MethodGet, pattern, http.StatusNoContent) - before; delta != 3 {
		t.Errorf("pattern counter delta = %v, want 3", delta)
	}
}

func TestPrometheusMetrics_FirstStatusWins(t *testing.T) {
	t.Parallel()

	const path = "/mw-test/first-status"
	before := requestCount(http.MethodPost, path, http.StatusAccepted)

	h := PrometheusMetrics(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, path, nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if delta := requestCount(http.MethodPost, path, http.StatusAccepted) - before; delta != 1 {
		t.Errorf("counter delta = %v, want 1", delta)
	}
}

func TestRouteLabel_WithoutChi(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/plain/path", nil)
	if got := RouteLabel(req); got != "/plain/path" {
		t.Errorf("RouteLabel() = %q, want /plain/path", got)
	}
}
