// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package models defines the request and response types of the Biblioteca
// HTTP API.
//
// Every endpoint answers with an APIResponse envelope. Payload types carry
// json tags for the wire format and validate tags consumed by
// internal/validation. The package has no behavior of its own and imports
// nothing from the rest of the module.
package models
