// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package ocr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/biblioteca/internal/config"
)

var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
)

type fakeEngine struct {
	lines    []string
	err      error
	gotMIME  string
	gotBytes int
}

func (f *fakeEngine) Recognize(_ context.Context, image []byte, mimeType string) ([]string, error) {
	f.gotMIME = mimeType
	f.gotBytes = len(image)
	return f.lines, f.err
}

func TestDetectImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantErr  bool
	}{
		{"jpeg", jpegHeader, "image/jpeg", false},
		{"png", pngHeader, "image/png", false},
		{"gif rejected", gifHeader, "", true},
		{"text rejected", []byte("hola mundo"), "", true},
		{"empty rejected", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DetectImage(tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedMedia) {
					t.Errorf("DetectImage() error = %v, want ErrUnsupportedMedia", err)
				}
				return
			}
			if err != nil || got != tt.wantMIME {
				t.Errorf("DetectImage() = %q, %v; want %q", got, err, tt.wantMIME)
			}
		})
	}
}

func TestService_ReadText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		image   []byte
		engine  *fakeEngine
		want    string
		wantErr error
	}{
		{
			name:   "lines joined with single spaces",
			image:  jpegHeader,
			engine: &fakeEngine{lines: []string{"Un detective", "investiga un crimen"}},
			want:   "Un detective investiga un crimen",
		},
		{
			name:    "blank result",
			image:   pngHeader,
			engine:  &fakeEngine{lines: []string{" ", ""}},
			wantErr: ErrNoText,
		},
		{
			name:    "no lines",
			image:   pngHeader,
			engine:  &fakeEngine{},
			wantErr: ErrNoText,
		},
		{
			name:    "unsupported media never reaches engine",
			image:   gifHeader,
			engine:  &fakeEngine{lines: []string{"x"}},
			wantErr: ErrUnsupportedMedia,
		},
		{
			name:    "engine failure wrapped",
			image:   jpegHeader,
			engine:  &fakeEngine{err: io.ErrUnexpectedEOF},
			wantErr: io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewService(tt.engine, time.Second).ReadText(context.Background(), tt.image)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ReadText() error = %v, want %v", err, tt.wantErr)
				}
				if errors.Is(tt.wantErr, ErrUnsupportedMedia) && tt.engine.gotBytes != 0 {
					t.Error("engine should not be called for unsupported media")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadText() = %q, want %q", got, tt.want)
			}
			if tt.engine.gotMIME != "image/jpeg" {
				t.Errorf("engine MIME = %q", tt.engine.gotMIME)
			}
		})
	}
}

func TestHTTPEngine_Recognize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile(image) error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if len(data) != len(pngHeader) {
			t.Errorf("uploaded %d bytes, want %d", len(data), len(pngHeader))
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("part Content-Type = %q", ct)
		}
		_, _ = io.WriteString(w, `{"results":["Fantasmas","en la casa"]}`)
	}))
	defer server.Close()

	lines, err := NewHTTPEngine(server.URL, time.Second).Recognize(context.Background(), pngHeader, "image/png")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"Fantasmas", "en la casa"}) {
		t.Errorf("Recognize() = %q", lines)
	}
}

func TestHTTPEngine_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPEngine(server.URL, time.Second).Recognize(context.Background(), pngHeader, "image/png")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("Recognize() error = %v, want status 503", err)
	}
}

// Not parallel: exec of a freshly written script can fail with ETXTBSY
// when another test forks concurrently.
func TestTesseractEngine_Recognize(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\ncat > /dev/null\nprintf 'Un amor\\n\\n  imposible  \\n'\n"
	bin := filepath.Join(dir, "tesseract")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	lines, err := NewTesseractEngine(bin, "spa").Recognize(context.Background(), jpegHeader, "image/jpeg")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"Un amor", "imposible"}) {
		t.Errorf("Recognize() = %q", lines)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(args)); got != "stdin stdout -l spa" {
		t.Errorf("tesseract args = %q", got)
	}
}

func TestTesseractEngine_Failure(t *testing.T) {
	t.Parallel()

	_, err := NewTesseractEngine(filepath.Join(t.TempDir(), "missing-binary"), "").Recognize(context.Background(), jpegHeader, "image/jpeg")
	if err == nil {
		t.Error("Recognize() with missing binary should fail")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New(&config.OCRConfig{Backend: "tesseract"}); err != nil {
		t.Errorf("New(tesseract) error = %v", err)
	}
	if _, err := New(&config.OCRConfig{Backend: "http", URL: "http://localhost:8000/ocr"}); err != nil {
		t.Errorf("New(http) error = %v", err)
	}
	if _, err := New(&config.OCRConfig{Backend: "easyocr"}); err == nil {
		t.Error("New() with unknown backend should fail")
	}
}
