// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biblioteca/internal/logging"
)

const maxErrorBodySize = 4 * 1024

// HTTPEngine uploads clips to a whisper.cpp server's /inference endpoint.
type HTTPEngine struct {
	url      string
	language string
	client   *http.Client
}

// NewHTTPEngine returns an engine for the server endpoint at url.
func NewHTTPEngine(url, language string, timeout time.Duration) *HTTPEngine {
	if language == "" {
		language = "es"
	}
	return &HTTPEngine{url: url, language: language, client: &http.Client{Timeout: timeout}}
}

type inferenceResponse struct {
	Text string `json:"text"`
}

// Transcribe implements Engine.
func (e *HTTPEngine) Transcribe(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	for k, v := range map[string]string{"language": e.language, "response_format": "json"} {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", fmt.Errorf("transcription service returned status %d: %s", resp.StatusCode,
			logging.Truncate(string(msg), maxErrorBodySize))
	}

	var out inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return joinTranscript(out.Text), nil
}
