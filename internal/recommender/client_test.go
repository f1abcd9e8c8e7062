// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package recommender

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biblioteca/internal/config"
)

const testAPIKey = "test-secret-key-9876"

func testConfig(baseURL string) *config.GeminiConfig {
	return &config.GeminiConfig{
		APIKey:              testAPIKey,
		Model:               "gemini-1.5-flash-latest",
		BaseURL:             baseURL,
		Timeout:             5 * time.Second,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  time.Minute,
	}
}

func TestClient_Generate_Success(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1beta/models/gemini-1.5-flash-latest:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("query string should be empty, got %q", r.URL.RawQuery)
		}
		if got := r.Header.Get("x-goog-api-key"); got != testAPIKey {
			t.Errorf("x-goog-api-key = %q", got)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"1. Dune"},{"text":" - Frank Herbert"}]}}]}`)
	}))
	defer server.Close()

	text, err := NewClient(testConfig(server.URL)).Generate(context.Background(), "recomienda libros")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "1. Dune - Frank Herbert" {
		t.Errorf("Generate() = %q", text)
	}
	if gotPrompt != "recomienda libros" {
		t.Errorf("prompt sent = %q", gotPrompt)
	}
}

func TestClient_Generate_EmptyResponses(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"no candidates": `{"candidates":[]}`,
		"blank text":    `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`,
		"no parts":      `{"candidates":[{"content":{}}]}`,
		"blocked":       `{"promptFeedback":{"blockReason":"SAFETY"}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer server.Close()

			_, err := NewClient(testConfig(server.URL)).Generate(context.Background(), "p")
			if !errors.Is(err, ErrEmptyResponse) {
				t.Errorf("Generate() error = %v, want ErrEmptyResponse", err)
			}
		})
	}
}

func TestClient_Generate_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer server.Close()

	_, err := NewClient(testConfig(server.URL)).Generate(context.Background(), "p")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Generate() error = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusBadRequest || se.Status != "INVALID_ARGUMENT" || se.Message != "API key not valid" {
		t.Errorf("StatusError = %+v", se)
	}
	if se.Temporary() {
		t.Error("400 should not be temporary")
	}
}

func TestClient_Generate_TruncatesErrorBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, strings.Repeat("x", 2*maxErrorBodySize))
	}))
	defer server.Close()

	_, err := NewClient(testConfig(server.URL)).Generate(context.Background(), "p")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Generate() error = %v, want *StatusError", err)
	}
	if !strings.HasSuffix(se.Body, "(truncated)") || len(se.Body) > maxErrorBodySize+32 {
		t.Errorf("body length = %d, want truncated to 64KB", len(se.Body))
	}
	if !se.Temporary() {
		t.Error("502 should be temporary")
	}
}

func TestClient_Generate_SingleAttempt(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := NewClient(testConfig(server.URL)).Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want exactly 1", got)
	}
}

func TestClient_Generate_TransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(testConfig(url)).Generate(context.Background(), "p")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *StatusError
	if errors.As(err, &se) || errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Generate() error = %v, want a transport error", err)
	}
	if strings.Contains(err.Error(), testAPIKey) {
		t.Error("transport error leaks the API key")
	}
}

func TestClient_Generate_RateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 1
	client := NewClient(cfg)

	if _, err := client.Generate(context.Background(), "p"); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.Generate(ctx, "p"); err == nil {
		t.Error("second Generate() should be throttled past the deadline")
	}
}
