// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package ocr

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tomtom215/biblioteca/internal/logging"
)

// maxStderr bounds the tool output quoted in errors.
const maxStderr = 512

// TesseractEngine runs `tesseract stdin stdout -l <lang>`.
type TesseractEngine struct {
	command  string
	language string
}

// NewTesseractEngine returns an engine invoking command (default "tesseract").
func NewTesseractEngine(command, language string) *TesseractEngine {
	if command == "" {
		command = "tesseract"
	}
	if language == "" {
		language = "spa"
	}
	return &TesseractEngine{command: command, language: language}
}

// Args returns the command line arguments passed to tesseract.
func (e *TesseractEngine) Args() []string {
	return []string{"stdin", "stdout", "-l", e.language}
}

// Recognize pipes image to tesseract and returns its non-blank output lines.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte, _ string) ([]string, error) {
	cmd := exec.CommandContext(ctx, e.command, e.Args()...)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", e.command, ctx.Err())
		}
		return nil, fmt.Errorf("%s failed: %w: %s", e.command, err,
			logging.Truncate(strings.TrimSpace(stderr.String()), maxStderr))
	}
	return splitLines(stdout.String()), nil
}

// splitLines returns the non-blank lines of s with surrounding space removed.
func splitLines(s string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
