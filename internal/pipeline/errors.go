// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package pipeline

import (
	"errors"
	"fmt"
)

// Adapter stages reported in AdapterError.
const (
	StageOCR    = "ocr"
	StageSpeech = "speech"
)

// ErrAdapterDisabled is returned when an image or audio request arrives
// while that adapter is turned off.
var ErrAdapterDisabled = errors.New("adapter disabled")

// ValidationError halts the pipeline before classification.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return "invalid query: " + string(e.Reason)
}

// Message returns the user-facing Spanish text.
func (e *ValidationError) Message() string {
	return e.Reason.Message()
}

// AdapterError reports an OCR or speech failure. The pipeline stops for
// that request.
type AdapterError struct {
	Stage string
	Err   error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s adapter: %v", e.Stage, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }
