// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package transcribe turns spoken book requests into text with whisper.cpp.
//
// The Transcriber stores each clip in a temporary file that exists only for
// the duration of one call, then hands the path to an Engine:
//   - CLIEngine runs whisper-cli
//   - HTTPEngine uploads to a whisper.cpp server
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"github.com/tomtom215/biblioteca/internal/config"
	"github.com/tomtom215/biblioteca/internal/logging"
	"github.com/tomtom215/biblioteca/internal/metrics"
)

// ErrUnsupportedMedia is returned for uploads that are not WAV, MP3 or M4A.
var ErrUnsupportedMedia = errors.New("unsupported audio type")

// Engine transcribes the audio file at path.
type Engine interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Transcriber is the speech-to-text adapter used by the pipeline. Safe for
// concurrent use: every call gets its own temporary file.
type Transcriber struct {
	engine  Engine
	tempDir string
	timeout time.Duration
}

// NewTranscriber wraps engine. An empty tempDir uses os.TempDir().
func NewTranscriber(engine Engine, tempDir string, timeout time.Duration) *Transcriber {
	return &Transcriber{engine: engine, tempDir: tempDir, timeout: timeout}
}

// New builds the Transcriber selected by cfg.Backend.
func New(cfg *config.SpeechConfig) (*Transcriber, error) {
	var engine Engine
	switch cfg.Backend {
	case "cli":
		engine = NewCLIEngine(cfg.Command, cfg.Model, cfg.Language)
	case "http":
		engine = NewHTTPEngine(cfg.URL, cfg.Language, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown speech backend %q", cfg.Backend)
	}
	return NewTranscriber(engine, cfg.TempDir, cfg.Timeout), nil
}

// audioExtensions maps accepted sniffed types to the temp file suffix.
// Phone recorders often label AAC audio with a generic MP4 brand.
var audioExtensions = map[string]string{
	"wav": ".wav",
	"mp3": ".mp3",
	"m4a": ".m4a",
	"mp4": ".m4a",
}

// DetectAudio returns the file extension (with dot) for a WAV, MP3 or M4A clip.
func DetectAudio(audio []byte) (string, error) {
	kind, err := filetype.Match(audio)
	if err != nil || kind == filetype.Unknown {
		return "", ErrUnsupportedMedia
	}
	ext, ok := audioExtensions[kind.Extension]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, kind.MIME.Value)
	}
	return ext, nil
}

// Transcribe writes audio to a temporary file, transcribes it and removes
// the file whether or not transcription succeeded.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	ext, err := DetectAudio(audio)
	if err != nil {
		return "", err
	}

	path, err := writeTemp(t.tempDir, ext, audio)
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logging.Ctx(ctx).Warn().Err(rmErr).Str("path", path).Msg("Failed to remove temporary audio file")
		}
	}()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := t.engine.Transcribe(ctx, path)
	metrics.RecordAdapterCall("speech", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Str("format", strings.TrimPrefix(ext, ".")).
		Int("bytes", len(audio)).
		Dur("duration", time.Since(start)).
		Msg("Transcription completed")
	return text, nil
}

func writeTemp(dir, ext string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "biblioteca-audio-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary audio file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write temporary audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close temporary audio file: %w", err)
	}
	return path, nil
}
