// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package pipeline

import (
	"strings"
	"unicode/utf8"
)

// MinQueryLength is the minimum number of characters in a trimmed query.
const MinQueryLength = 3

// Reason explains why a query was rejected. The zero value means accepted.
type Reason string

// Rejection reasons.
const (
	ReasonNone         Reason = ""
	ReasonTooShort     Reason = "too short"
	ReasonNoValidWords Reason = "no valid words"
)

// Message returns the Spanish text shown to the user for r.
func (r Reason) Message() string {
	switch r {
	case ReasonTooShort:
		return "La entrada es demasiado corta. Escribe un poco más."
	case ReasonNoValidWords:
		return "Entrada no válida: Por favor usa palabras, no solo números o símbolos."
	default:
		return ""
	}
}

// MetricLabel returns r in snake_case for Prometheus labels.
func (r Reason) MetricLabel() string {
	return strings.ReplaceAll(string(r), " ", "_")
}

// validLetters are the characters that make a query look like words.
const validLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZáéíóúÁÉÍÓÚñÑ"

// Check returns why text is not an acceptable query, or ReasonNone.
// Length is measured in characters after trimming Unicode whitespace.
func Check(text string) Reason {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinQueryLength {
		return ReasonTooShort
	}
	if !strings.ContainsAny(text, validLetters) {
		return ReasonNoValidWords
	}
	return ReasonNone
}

// Validate reports whether text is acceptable and, if not, the reason.
func Validate(text string) (bool, string) {
	r := Check(text)
	return r == ReasonNone, string(r)
}
