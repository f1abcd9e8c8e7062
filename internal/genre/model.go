// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package genre

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ModelFormatVersion identifies the on-disk artifact layout.
const ModelFormatVersion = 1

var (
	// ErrModelNotLoaded is returned when no model is available.
	ErrModelNotLoaded = errors.New("genre model not loaded")
	// ErrEmptyModel is returned for a model with no vocabulary or classes,
	// or whose dimensions do not agree.
	ErrEmptyModel = errors.New("genre model is empty or inconsistent")
)

// Model is a fitted vectorizer plus classifier.
type Model struct {
	Version    int         `json:"version"`
	TrainedAt  time.Time   `json:"trained_at"`
	Examples   int         `json:"examples"`
	Vectorizer *Vectorizer `json:"vectorizer"`
	Bayes      *NaiveBayes `json:"naive_bayes"`
}

// Train fits a model on examples. Every example must carry a genre label.
func Train(examples []Example) (*Model, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("train: %w", ErrEmptyModel)
	}

	docs := make([]string, len(examples))
	labels := make([]Label, len(examples))
	for i, ex := range examples {
		if !ex.Label.IsGenre() {
			return nil, fmt.Errorf("train: example %d has unknown label %q", i, ex.Label)
		}
		docs[i] = ex.Text
		labels[i] = ex.Label
	}

	vec := FitVectorizer(docs)
	if vec.Size() == 0 {
		return nil, fmt.Errorf("train: corpus produced no features: %w", ErrEmptyModel)
	}

	rows := make([]SparseVector, len(docs))
	for i, doc := range docs {
		rows[i] = vec.Transform(doc)
	}

	return &Model{
		Version:    ModelFormatVersion,
		TrainedAt:  time.Now().UTC(),
		Examples:   len(examples),
		Vectorizer: vec,
		Bayes:      FitNaiveBayes(rows, labels, vec.Size()),
	}, nil
}

// Predict classifies text. Text with no feature in the vocabulary is scored
// on the class priors alone.
func (m *Model) Predict(text string) (Label, error) {
	if err := m.check(); err != nil {
		return "", err
	}
	return m.Bayes.Predict(m.Vectorizer.Transform(text)), nil
}

// check verifies that the model's dimensions agree.
func (m *Model) check() error {
	if m == nil {
		return ErrModelNotLoaded
	}
	if m.Vectorizer == nil || m.Bayes == nil {
		return ErrEmptyModel
	}

	n := m.Vectorizer.Size()
	if n == 0 || len(m.Vectorizer.IDF) != n || len(m.Bayes.Classes) == 0 {
		return ErrEmptyModel
	}
	if len(m.Bayes.ClassLogPrior) != len(m.Bayes.Classes) || len(m.Bayes.FeatureLogProb) != len(m.Bayes.Classes) {
		return ErrEmptyModel
	}
	for _, row := range m.Bayes.FeatureLogProb {
		if len(row) != n {
			return ErrEmptyModel
		}
	}
	return nil
}

// Save writes the model as JSON. The file is written to a temporary name in
// the same directory and renamed into place.
func (m *Model) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp model file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close model file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set model file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move model into place: %w", err)
	}
	return nil
}

// Load reads and verifies a model written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("model %s: %w", path, ErrEmptyModel)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	if m.Version != ModelFormatVersion {
		return nil, fmt.Errorf("model %s has format version %d, want %d", path, m.Version, ModelFormatVersion)
	}
	if err := m.check(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}

	m.Vectorizer.buildIndex()
	return &m, nil
}
