// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package logging

import "strings"

// redactedPlaceholder replaces secrets in log and user-facing output.
const redactedPlaceholder = "[REDACTED]"

// RedactSecret removes every occurrence of secret from s.
// Secrets shorter than 4 characters are left alone so that short values
// cannot blank out unrelated text.
func RedactSecret(s, secret string) string {
	if len(secret) < 4 {
		return s
	}
	return strings.ReplaceAll(s, secret, redactedPlaceholder)
}

// MaskSecret returns a printable hint of a secret for startup logs,
// keeping only the last four characters.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// Truncate shortens s to at most maxLen bytes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
