// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package genre

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestClassifier_MissingModelYieldsUnknown(t *testing.T) {
	t.Parallel()

	c := NewClassifier(filepath.Join(t.TempDir(), "absent.json"))
	if c.Loaded() {
		t.Fatal("Loaded() = true for a missing model file")
	}
	if got := c.Classify(context.Background(), "magia y dragones"); got != Unknown {
		t.Errorf("Classify() = %q, want %q", got, Unknown)
	}
	if _, err := c.Predict("magia"); !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("Predict() error = %v, want ErrModelNotLoaded", err)
	}
	if c.Status().Loaded {
		t.Error("Status().Loaded = true for a missing model")
	}
}

func TestClassifier_PredictionErrorSentinel(t *testing.T) {
	t.Parallel()

	m, err := Train(DefaultCorpus())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClassifierFromModel(m)

	if got := c.Classify(context.Background(), "zzz qqq xxx"); got != CienciaFiccion {
		t.Errorf("Classify() of unseen words = %q, want %q", got, CienciaFiccion)
	}

	broken := NewClassifierFromModel(&Model{Version: ModelFormatVersion})
	if got := broken.Classify(context.Background(), "magia"); got != PredictionError {
		t.Errorf("Classify() with empty model = %q, want %q", got, PredictionError)
	}
}

func TestClassifier_NeverEmpty(t *testing.T) {
	t.Parallel()

	m, err := Train(DefaultCorpus())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClassifierFromModel(m)

	inputs := []string{"abc", "  magia  ", "12 dragones", "ñandú", "crimen crimen crimen", "zzz"}
	for _, in := range inputs {
		got := c.Classify(context.Background(), in)
		if got == "" || (!got.IsGenre() && !got.IsSentinel()) {
			t.Errorf("Classify(%q) = %q, want a genre or sentinel", in, got)
		}
	}
}

func TestClassifier_LoadAndReloadIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "modelo_libros.json")

	c := NewClassifier(path)
	if c.Loaded() {
		t.Fatal("classifier should start disabled")
	}

	m, err := Train(DefaultCorpus())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}

	reloaded, err := c.ReloadIfChanged()
	if err != nil {
		t.Fatalf("ReloadIfChanged() error = %v", err)
	}
	if !reloaded || !c.Loaded() {
		t.Fatal("expected the new model to be loaded")
	}
	if got := c.Classify(context.Background(), "un detective y un asesinato"); got != Policial {
		t.Errorf("Classify() = %q, want %q", got, Policial)
	}

	reloaded, err = c.ReloadIfChanged()
	if err != nil || reloaded {
		t.Errorf("ReloadIfChanged() on unchanged file = %v, %v; want false, nil", reloaded, err)
	}

	// A corrupt replacement keeps the previous model in service.
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ReloadIfChanged(); err == nil {
		t.Error("ReloadIfChanged() with corrupt file should fail")
	}
	if !c.Loaded() {
		t.Error("previous model should remain in service after a failed reload")
	}

	// The same corrupt file is not read again until it changes.
	reloaded, err = c.ReloadIfChanged()
	if err != nil || reloaded {
		t.Errorf("ReloadIfChanged() on unchanged corrupt file = %v, %v; want false, nil", reloaded, err)
	}

	later := future.Add(time.Minute)
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	reloaded, err = c.ReloadIfChanged()
	if err != nil || !reloaded {
		t.Errorf("ReloadIfChanged() after repair = %v, %v; want true, nil", reloaded, err)
	}

	st := c.Status()
	if !st.Loaded || st.Vocabulary == 0 || st.Examples != len(DefaultCorpus()) || st.ModelPath != path {
		t.Errorf("Status() = %+v", st)
	}
}

func TestClassifier_ConcurrentClassifyDuringReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "modelo_libros.json")
	m, err := Train(DefaultCorpus())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	c := NewClassifier(path)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := c.Classify(context.Background(), "fantasmas y miedo"); got != Terror {
					t.Errorf("Classify() = %q, want %q", got, Terror)
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		if err := c.Reload(); err != nil {
			t.Errorf("Reload() error = %v", err)
		}
	}
	wg.Wait()
}
