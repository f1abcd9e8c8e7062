// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package ocr extracts text from photos of book covers and synopses.
//
// A Service validates the upload, hands it to an Engine and joins the
// recognized lines with single spaces. Engines:
//   - TesseractEngine runs the tesseract CLI locally
//   - HTTPEngine posts the image to an OCR sidecar
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"github.com/tomtom215/biblioteca/internal/config"
	"github.com/tomtom215/biblioteca/internal/logging"
	"github.com/tomtom215/biblioteca/internal/metrics"
)

// NoTextMessage is shown when an image contains no readable text.
const NoTextMessage = "No se detectó texto legible en la imagen."

var (
	// ErrUnsupportedMedia is returned for uploads that are not JPEG or PNG.
	ErrUnsupportedMedia = errors.New("unsupported image type")
	// ErrNoText is returned when recognition yields only whitespace.
	ErrNoText = errors.New("no readable text in image")
)

// Reader extracts text from an image.
type Reader interface {
	ReadText(ctx context.Context, image []byte) (string, error)
}

// Engine recognizes text lines in an image of the given MIME type.
type Engine interface {
	Recognize(ctx context.Context, image []byte, mimeType string) ([]string, error)
}

// Service is the Reader used by the pipeline. Safe for concurrent use.
type Service struct {
	engine  Engine
	timeout time.Duration
}

// NewService wraps engine. A zero timeout leaves the caller's deadline in charge.
func NewService(engine Engine, timeout time.Duration) *Service {
	return &Service{engine: engine, timeout: timeout}
}

// New builds the Service selected by cfg.Backend.
func New(cfg *config.OCRConfig) (*Service, error) {
	var engine Engine
	switch cfg.Backend {
	case "tesseract":
		engine = NewTesseractEngine(cfg.Command, cfg.Language)
	case "http":
		engine = NewHTTPEngine(cfg.URL, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown OCR backend %q", cfg.Backend)
	}
	return NewService(engine, cfg.Timeout), nil
}

// DetectImage returns the MIME type of image if it is JPEG or PNG.
func DetectImage(image []byte) (string, error) {
	kind, err := filetype.Match(image)
	if err != nil || kind == filetype.Unknown {
		return "", ErrUnsupportedMedia
	}
	switch kind.Extension {
	case "jpg", "png":
		return kind.MIME.Value, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, kind.MIME.Value)
	}
}

// ReadText recognizes the text in image. The returned text is the engine's
// lines joined by single spaces, untrimmed.
func (s *Service) ReadText(ctx context.Context, image []byte) (string, error) {
	mimeType, err := DetectImage(image)
	if err != nil {
		return "", err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	lines, err := s.engine.Recognize(ctx, image, mimeType)
	metrics.RecordAdapterCall("ocr", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}

	text := strings.Join(lines, " ")
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	logging.Ctx(ctx).Debug().
		Int("lines", len(lines)).
		Int("chars", len(text)).
		Dur("duration", time.Since(start)).
		Msg("OCR completed")
	return text, nil
}
