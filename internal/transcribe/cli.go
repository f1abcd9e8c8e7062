// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tomtom215/biblioteca/internal/logging"
)

const maxStderr = 512

// CLIEngine runs whisper.cpp's whisper-cli on a file and reads the
// transcript from stdout. Non-WAV input needs a build with ffmpeg support.
type CLIEngine struct {
	command  string
	model    string
	language string
}

// NewCLIEngine returns an engine invoking command (default "whisper-cli").
func NewCLIEngine(command, model, language string) *CLIEngine {
	if command == "" {
		command = "whisper-cli"
	}
	if language == "" {
		language = "es"
	}
	return &CLIEngine{command: command, model: model, language: language}
}

// Args returns the arguments used to transcribe path: no timestamps, no progress.
func (e *CLIEngine) Args(path string) []string {
	return []string{"-m", e.model, "-l", e.language, "-nt", "-np", "-f", path}
}

// Transcribe implements Engine.
func (e *CLIEngine) Transcribe(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, e.command, e.Args(path)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s: %w", e.command, ctx.Err())
		}
		return "", fmt.Errorf("%s failed: %w: %s", e.command, err,
			logging.Truncate(strings.TrimSpace(stderr.String()), maxStderr))
	}
	return joinTranscript(stdout.String()), nil
}

// joinTranscript collapses whisper's segment lines into one string.
func joinTranscript(out string) string {
	return strings.Join(strings.Fields(out), " ")
}
