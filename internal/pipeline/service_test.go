// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/biblioteca/internal/genre"
	"github.com/tomtom215/biblioteca/internal/ocr"
	"github.com/tomtom215/biblioteca/internal/recommender"
)

type stubClassifier struct {
	label genre.Label
	calls int
	got   string
}

func (s *stubClassifier) Classify(_ context.Context, text string) genre.Label {
	s.calls++
	s.got = text
	return s.label
}

type stubRecommender struct {
	reply  recommender.Reply
	calls  int
	prompt string
}

func (s *stubRecommender) Recommend(_ context.Context, p string) recommender.Reply {
	s.calls++
	s.prompt = p
	return s.reply
}

type stubReader struct {
	text string
	err  error
}

func (s stubReader) ReadText(context.Context, []byte) (string, error) { return s.text, s.err }

type stubSpeech struct {
	text string
	err  error
}

func (s stubSpeech) Transcribe(context.Context, []byte) (string, error) { return s.text, s.err }

func okReply() recommender.Reply {
	return recommender.Reply{Text: "1. Dune, de Frank Herbert", Kind: recommender.KindSuccess}
}

func TestProcess_Success(t *testing.T) {
	t.Parallel()

	cls := &stubClassifier{label: genre.CienciaFiccion}
	rec := &stubRecommender{reply: okReply()}
	svc := NewService(cls, rec)

	input := "  naves espaciales y robots  "
	got, err := svc.Process(context.Background(), input)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if got.Genre != genre.CienciaFiccion || got.Text != "1. Dune, de Frank Herbert" || got.Source != SourceText {
		t.Errorf("Process() = %+v", got)
	}
	if got.ClassifierDegraded || got.RecommendationFailed {
		t.Errorf("unexpected degraded flags: %+v", got)
	}
	if cls.got != input {
		t.Errorf("classifier saw %q, want the untrimmed input", cls.got)
	}
	if !strings.Contains(rec.prompt, "'"+input+"'") || !strings.Contains(rec.prompt, "Ciencia Ficcion") {
		t.Errorf("prompt = %q", rec.prompt)
	}
}

func TestProcess_ValidationHaltsBeforeClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		reason Reason
	}{
		{"ab", ReasonTooShort},
		{"12345", ReasonNoValidWords},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			cls := &stubClassifier{label: genre.Terror}
			rec := &stubRecommender{reply: okReply()}
			_, err := NewService(cls, rec).Process(context.Background(), tt.input)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Process() error = %v, want *ValidationError", err)
			}
			if verr.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", verr.Reason, tt.reason)
			}
			if verr.Message() == "" {
				t.Error("Message() should not be empty")
			}
			if cls.calls != 0 || rec.calls != 0 {
				t.Errorf("classifier/recommender called %d/%d times, want 0", cls.calls, rec.calls)
			}
		})
	}
}

func TestProcess_DegradedPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		label          genre.Label
		reply          recommender.Reply
		wantClassifier bool
		wantRecommend  bool
	}{
		{
			name:           "no model",
			label:          genre.Unknown,
			reply:          okReply(),
			wantClassifier: true,
		},
		{
			name:           "prediction error",
			label:          genre.PredictionError,
			reply:          okReply(),
			wantClassifier: true,
		},
		{
			name:          "remote failure keeps the label",
			label:         genre.Policial,
			reply:         recommender.Reply{Text: "Error al conectar con Gemini: timeout", Failed: true, Kind: recommender.KindTransport},
			wantRecommend: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &stubRecommender{reply: tt.reply}
			got, err := NewService(&stubClassifier{label: tt.label}, rec).Process(context.Background(), "un detective en la niebla")
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if got.Genre != tt.label {
				t.Errorf("Genre = %q, want %q", got.Genre, tt.label)
			}
			if got.Text == "" {
				t.Error("Text must never be empty")
			}
			if got.ClassifierDegraded != tt.wantClassifier || got.RecommendationFailed != tt.wantRecommend {
				t.Errorf("flags = %v/%v, want %v/%v", got.ClassifierDegraded, got.RecommendationFailed, tt.wantClassifier, tt.wantRecommend)
			}
			if rec.calls != 1 {
				t.Errorf("recommender called %d times, want exactly 1", rec.calls)
			}
			if !strings.Contains(rec.prompt, string(tt.label)) {
				t.Errorf("prompt should carry the label %q", tt.label)
			}
		})
	}
}

func TestProcess_WithTrainedClassifier(t *testing.T) {
	t.Parallel()

	m, err := genre.Train(genre.DefaultCorpus())
	if err != nil {
		t.Fatal(err)
	}
	rec := &stubRecommender{reply: recommender.Reply{Text: "Gemini no devolvió una respuesta válida.", Failed: true, Kind: recommender.KindEmpty}}
	svc := NewService(genre.NewClassifierFromModel(m), rec)

	got, err := svc.Process(context.Background(), "crimen detective asesinato misterio policia huellas culpable investigacion forense")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got.Genre != genre.Policial {
		t.Errorf("Genre = %q, want Policial", got.Genre)
	}
	if got.Text != "Gemini no devolvió una respuesta válida." || !got.RecommendationFailed {
		t.Errorf("Recommendation = %+v", got)
	}
}

func TestProcessImage(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		_, err := NewService(&stubClassifier{}, &stubRecommender{}).ProcessImage(context.Background(), []byte{1})
		var aerr *AdapterError
		if !errors.As(err, &aerr) || aerr.Stage != StageOCR || !errors.Is(err, ErrAdapterDisabled) {
			t.Errorf("ProcessImage() error = %v, want disabled ocr AdapterError", err)
		}
	})

	t.Run("ocr failure halts", func(t *testing.T) {
		t.Parallel()
		cls := &stubClassifier{label: genre.Terror}
		svc := NewService(cls, &stubRecommender{reply: okReply()}, WithOCR(stubReader{err: ocr.ErrNoText}))
		_, err := svc.ProcessImage(context.Background(), []byte{1})
		var aerr *AdapterError
		if !errors.As(err, &aerr) || aerr.Stage != StageOCR || !errors.Is(err, ocr.ErrNoText) {
			t.Errorf("ProcessImage() error = %v, want ocr AdapterError wrapping ErrNoText", err)
		}
		if cls.calls != 0 {
			t.Error("classifier should not run after an adapter failure")
		}
	})

	t.Run("extracted text flows through", func(t *testing.T) {
		t.Parallel()
		svc := NewService(&stubClassifier{label: genre.Terror}, &stubRecommender{reply: okReply()},
			WithOCR(stubReader{text: "Fantasmas en la mansión"}))
		got, err := svc.ProcessImage(context.Background(), []byte{1})
		if err != nil {
			t.Fatalf("ProcessImage() error = %v", err)
		}
		if got.Source != SourceImage || got.SourceText != "Fantasmas en la mansión" || got.Query != got.SourceText {
			t.Errorf("ProcessImage() = %+v", got)
		}
	})
}

func TestProcessAudio(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		_, err := NewService(&stubClassifier{}, &stubRecommender{}).ProcessAudio(context.Background(), []byte{1})
		if !errors.Is(err, ErrAdapterDisabled) {
			t.Errorf("ProcessAudio() error = %v, want ErrAdapterDisabled", err)
		}
	})

	t.Run("speech failure", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("whisper exited 1")
		svc := NewService(&stubClassifier{}, &stubRecommender{}, WithSpeech(stubSpeech{err: boom}))
		_, err := svc.ProcessAudio(context.Background(), []byte{1})
		var aerr *AdapterError
		if !errors.As(err, &aerr) || aerr.Stage != StageSpeech || !errors.Is(err, boom) {
			t.Errorf("ProcessAudio() error = %v", err)
		}
	})

	t.Run("short transcript is a validation error", func(t *testing.T) {
		t.Parallel()
		svc := NewService(&stubClassifier{}, &stubRecommender{}, WithSpeech(stubSpeech{text: " eh "}))
		got, err := svc.ProcessAudio(context.Background(), []byte{1})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Reason != ReasonTooShort {
			t.Errorf("ProcessAudio() error = %v, want too short", err)
		}
		if got.SourceText != " eh " {
			t.Errorf("SourceText = %q, want the transcript", got.SourceText)
		}
	})

	t.Run("transcript flows through", func(t *testing.T) {
		t.Parallel()
		svc := NewService(&stubClassifier{label: genre.Romance}, &stubRecommender{reply: okReply()},
			WithSpeech(stubSpeech{text: "una historia de amor"}))
		got, err := svc.ProcessAudio(context.Background(), []byte{1})
		if err != nil {
			t.Fatalf("ProcessAudio() error = %v", err)
		}
		if got.Source != SourceAudio || got.Genre != genre.Romance || got.SourceText != "una historia de amor" {
			t.Errorf("ProcessAudio() = %+v", got)
		}
	})
}

func TestServiceAdapterFlags(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubClassifier{}, &stubRecommender{})
	if svc.OCREnabled() || svc.SpeechEnabled() {
		t.Error("adapters should be disabled by default")
	}
	svc = NewService(&stubClassifier{}, &stubRecommender{}, WithOCR(stubReader{}), WithSpeech(stubSpeech{}))
	if !svc.OCREnabled() || !svc.SpeechEnabled() {
		t.Error("adapters should be enabled by options")
	}
}
