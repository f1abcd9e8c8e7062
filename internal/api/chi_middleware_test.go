// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/biblioteca/internal/config"
)

func TestNewChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	if mc := NewChiMiddlewareConfig(nil); mc.RateLimitRequests != 30 || len(mc.CORSAllowedOrigins) != 0 {
		t.Errorf("nil config should give defaults, got %+v", mc)
	}

	mc := NewChiMiddlewareConfig(&config.APIConfig{
		CORSOrigins:       []string{"https://a.example"},
		RateLimitReqs:     5,
		RateLimitWindow:   10 * time.Second,
		RateLimitDisabled: true,
	})
	if mc.RateLimitRequests != 5 || mc.RateLimitWindow != 10*time.Second || !mc.RateLimitDisabled {
		t.Errorf("rate limit settings not applied: %+v", mc)
	}
	if len(mc.CORSAllowedOrigins) != 1 || mc.CORSAllowedOrigins[0] != "https://a.example" {
		t.Errorf("CORS origins = %v", mc.CORSAllowedOrigins)
	}
}

func TestRateLimitCustom_Disabled(t *testing.T) {
	t.Parallel()

	mc := DefaultChiMiddlewareConfig()
	mc.RateLimitDisabled = true
	limit := NewChiMiddleware(mc).RateLimitCustom(RateLimitConfig{Requests: 1, Window: time.Minute})

	handler := limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
}

func TestRequestLogging_PassesThrough(t *testing.T) {
	t.Parallel()

	handler := RequestLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rec.Code != http.StatusAccepted || rec.Body.String() != "ok" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}
