// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package pipeline runs a book request end to end:
//
//	validate -> classify -> build prompt -> recommend
//
// Image and audio requests are first turned into text by the OCR and
// speech adapters. Only validation and adapter failures stop a request;
// classifier and recommender problems degrade the result instead.
package pipeline

import (
	"context"
	"time"

	"github.com/tomtom215/biblioteca/internal/genre"
	"github.com/tomtom215/biblioteca/internal/logging"
	"github.com/tomtom215/biblioteca/internal/metrics"
	"github.com/tomtom215/biblioteca/internal/ocr"
	"github.com/tomtom215/biblioteca/internal/prompt"
	"github.com/tomtom215/biblioteca/internal/recommender"
)

// Source identifies where the query text came from.
type Source string

// Query sources.
const (
	SourceText  Source = "text"
	SourceImage Source = "image"
	SourceAudio Source = "audio"
)

// GenreClassifier labels a query. It always returns a label.
type GenreClassifier interface {
	Classify(ctx context.Context, text string) genre.Label
}

// Recommender turns a prompt into displayable text. It never fails.
type Recommender interface {
	Recommend(ctx context.Context, prompt string) recommender.Reply
}

// SpeechToText transcribes an audio clip.
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Recommendation is the result of one successful pipeline run.
type Recommendation struct {
	Query  string
	Genre  genre.Label
	Text   string
	Source Source
	// SourceText is the OCR or transcription output for image and audio requests.
	SourceText string

	// ClassifierDegraded is set when Genre is a sentinel.
	ClassifierDegraded bool
	// RecommendationFailed is set when Text is a fallback message.
	RecommendationFailed bool
	FailureKind          recommender.Kind

	Duration time.Duration
}

// Service composes the pipeline stages. Safe for concurrent use when its
// dependencies are.
type Service struct {
	classifier  GenreClassifier
	recommender Recommender
	ocr         ocr.Reader
	speech      SpeechToText
}

// Option configures optional adapters.
type Option func(*Service)

// WithOCR enables image requests.
func WithOCR(r ocr.Reader) Option {
	return func(s *Service) { s.ocr = r }
}

// WithSpeech enables audio requests.
func WithSpeech(t SpeechToText) Option {
	return func(s *Service) { s.speech = t }
}

// NewService creates a pipeline over the given classifier and recommender.
func NewService(classifier GenreClassifier, rec Recommender, opts ...Option) *Service {
	s := &Service{classifier: classifier, recommender: rec}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OCREnabled reports whether image requests are accepted.
func (s *Service) OCREnabled() bool { return s.ocr != nil }

// SpeechEnabled reports whether audio requests are accepted.
func (s *Service) SpeechEnabled() bool { return s.speech != nil }

// Process runs a typed query. The only error is *ValidationError.
func (s *Service) Process(ctx context.Context, text string) (Recommendation, error) {
	return s.process(ctx, text, SourceText)
}

// ProcessImage extracts text from image and processes it. OCR failures are
// returned as *AdapterError with Stage "ocr".
func (s *Service) ProcessImage(ctx context.Context, image []byte) (Recommendation, error) {
	if s.ocr == nil {
		return Recommendation{}, &AdapterError{Stage: StageOCR, Err: ErrAdapterDisabled}
	}

	text, err := s.ocr.ReadText(ctx, image)
	if err != nil {
		metrics.RecordPipeline(string(SourceImage), "adapter_error")
		return Recommendation{}, &AdapterError{Stage: StageOCR, Err: err}
	}

	rec, err := s.process(ctx, text, SourceImage)
	rec.SourceText = text
	return rec, err
}

// ProcessAudio transcribes audio and processes the transcript. Speech
// failures are returned as *AdapterError with Stage "speech".
func (s *Service) ProcessAudio(ctx context.Context, audio []byte) (Recommendation, error) {
	if s.speech == nil {
		return Recommendation{}, &AdapterError{Stage: StageSpeech, Err: ErrAdapterDisabled}
	}

	text, err := s.speech.Transcribe(ctx, audio)
	if err != nil {
		metrics.RecordPipeline(string(SourceAudio), "adapter_error")
		return Recommendation{}, &AdapterError{Stage: StageSpeech, Err: err}
	}

	rec, err := s.process(ctx, text, SourceAudio)
	rec.SourceText = text
	return rec, err
}

func (s *Service) process(ctx context.Context, text string, source Source) (Recommendation, error) {
	start := time.Now()
	log := logging.Ctx(ctx)

	if reason := Check(text); reason != ReasonNone {
		metrics.RecordValidationRejection(reason.MetricLabel())
		metrics.RecordPipeline(string(source), "rejected")
		log.Info().Str("source", string(source)).Str("reason", string(reason)).Msg("Query rejected")
		return Recommendation{}, &ValidationError{Reason: reason}
	}

	label := s.classifier.Classify(ctx, text)
	reply := s.recommender.Recommend(ctx, prompt.Build(text, label))

	rec := Recommendation{
		Query:                text,
		Genre:                label,
		Text:                 reply.Text,
		Source:               source,
		ClassifierDegraded:   label.IsSentinel(),
		RecommendationFailed: reply.Failed,
		FailureKind:          reply.Kind,
		Duration:             time.Since(start),
	}

	outcome := "ok"
	if rec.ClassifierDegraded || rec.RecommendationFailed {
		outcome = "degraded"
	}
	metrics.RecordPipeline(string(source), outcome)

	log.Info().
		Str("source", string(source)).
		Str("genre", label.String()).
		Bool("recommendation_failed", reply.Failed).
		Dur("duration", rec.Duration).
		Msg("Recommendation generated")
	return rec, nil
}
