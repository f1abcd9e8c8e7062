// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biblioteca/internal/logging"
)

// maxErrorBodySize limits the sidecar response body quoted in errors.
const maxErrorBodySize = 4 * 1024

// HTTPEngine posts images to an OCR sidecar as multipart field "image" and
// expects {"results": ["line", ...]} back.
type HTTPEngine struct {
	url    string
	client *http.Client
}

// NewHTTPEngine returns an engine for the sidecar at url.
func NewHTTPEngine(url string, timeout time.Duration) *HTTPEngine {
	return &HTTPEngine{url: url, client: &http.Client{Timeout: timeout}}
}

type httpResult struct {
	Results []string `json:"results"`
}

// Recognize implements Engine.
func (e *HTTPEngine) Recognize(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="upload"`)
	h.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("OCR service returned status %d: %s", resp.StatusCode,
			logging.Truncate(string(msg), maxErrorBodySize))
	}

	var out httpResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode OCR response: %w", err)
	}
	return out.Results, nil
}
