// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package genre

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/biblioteca/internal/logging"
	"github.com/tomtom215/biblioteca/internal/metrics"
)

// Classifier holds the model in service. It starts disabled when the model
// file cannot be loaded and can be reloaded while requests are in flight.
type Classifier struct {
	path  string
	model atomic.Pointer[loadedModel]

	// reloadMu serializes Reload and ReloadIfChanged.
	reloadMu sync.Mutex
	// failedModTime is the modification time of the last file that failed
	// to load. Guarded by reloadMu.
	failedModTime time.Time
}

type loadedModel struct {
	model    *Model
	modTime  time.Time
	loadedAt time.Time
}

// Status describes the classifier for health and genre endpoints.
type Status struct {
	Loaded     bool      `json:"loaded"`
	ModelPath  string    `json:"model_path"`
	Vocabulary int       `json:"vocabulary_size,omitempty"`
	Examples   int       `json:"training_examples,omitempty"`
	TrainedAt  time.Time `json:"trained_at"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// NewClassifier loads the model at path. A missing or unreadable model is
// logged and leaves the classifier disabled; it is not an error.
func NewClassifier(path string) *Classifier {
	c := &Classifier{path: path}
	if err := c.Reload(); err != nil {
		logging.Warn().Err(err).Str("model_path", path).
			Msg("Genre model unavailable, classifier disabled")
	}
	return c
}

// NewClassifierFromModel wraps an already trained model.
func NewClassifierFromModel(m *Model) *Classifier {
	c := &Classifier{}
	if m != nil {
		now := time.Now()
		c.model.Store(&loadedModel{model: m, loadedAt: now})
	}
	return c
}

// Predict classifies text, returning ErrModelNotLoaded or ErrEmptyModel on
// failure.
func (c *Classifier) Predict(text string) (Label, error) {
	lm := c.model.Load()
	if lm == nil {
		return "", ErrModelNotLoaded
	}
	return lm.model.Predict(text)
}

// Classify always returns a label: a genre, Unknown when no model is loaded,
// or PredictionError when the loaded model cannot score text.
func (c *Classifier) Classify(ctx context.Context, text string) Label {
	label, err := c.Predict(text)

	switch {
	case err == nil:
	case errors.Is(err, ErrModelNotLoaded):
		label = Unknown
	case errors.Is(err, ErrEmptyModel):
		logging.Ctx(ctx).Debug().Err(err).Msg("Genre prediction failed")
		label = PredictionError
	default:
		logging.Ctx(ctx).Warn().Err(err).Msg("Unexpected genre prediction error")
		label = PredictionError
	}

	metrics.RecordPrediction(label.String())
	return label
}

// Loaded reports whether a model is in service.
func (c *Classifier) Loaded() bool {
	return c.model.Load() != nil
}

// Status returns a snapshot of the model in service.
func (c *Classifier) Status() Status {
	s := Status{ModelPath: c.path}
	lm := c.model.Load()
	if lm == nil {
		return s
	}
	s.Loaded = true
	s.Vocabulary = lm.model.Vectorizer.Size()
	s.Examples = lm.model.Examples
	s.TrainedAt = lm.model.TrainedAt
	s.LoadedAt = lm.loadedAt
	return s
}

// Reload reads the model file and swaps it in. On failure the previous
// model, if any, stays in service.
func (c *Classifier) Reload() error {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()
	return c.reloadLocked()
}

// ReloadIfChanged reloads the model when the file's modification time
// differs from the one in service. A file that already failed to load is
// not retried until it changes again. It reports whether a reload happened.
func (c *Classifier) ReloadIfChanged() (bool, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	if c.path == "" {
		return false, ErrModelNotLoaded
	}
	info, err := os.Stat(c.path)
	if err != nil {
		return false, fmt.Errorf("failed to stat model %s: %w", c.path, err)
	}
	modTime := info.ModTime()
	if lm := c.model.Load(); lm != nil && lm.modTime.Equal(modTime) {
		return false, nil
	}
	if !c.failedModTime.IsZero() && c.failedModTime.Equal(modTime) {
		return false, nil
	}
	if err := c.reloadLocked(); err != nil {
		c.failedModTime = modTime
		return false, err
	}
	c.failedModTime = time.Time{}
	return true, nil
}

func (c *Classifier) reloadLocked() error {
	if c.path == "" {
		return ErrModelNotLoaded
	}

	info, err := os.Stat(c.path)
	if err != nil {
		metrics.RecordModelLoad(0, err)
		return fmt.Errorf("failed to stat model %s: %w", c.path, err)
	}

	m, err := Load(c.path)
	if err != nil {
		metrics.RecordModelLoad(0, err)
		return err
	}

	c.model.Store(&loadedModel{model: m, modTime: info.ModTime(), loadedAt: time.Now()})
	metrics.RecordModelLoad(m.Vectorizer.Size(), nil)

	logging.Info().
		Str("model_path", c.path).
		Int("vocabulary_size", m.Vectorizer.Size()).
		Int("training_examples", m.Examples).
		Msg("Genre model loaded")
	return nil
}
