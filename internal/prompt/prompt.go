// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package prompt builds the instruction sent to the generative model.
package prompt

import (
	"fmt"

	"github.com/tomtom215/biblioteca/internal/genre"
)

// BookCount is how many titles the model is asked to recommend.
const BookCount = 3

const librarianTemplate = "El usuario busca libros basados en esta descripción: '%s'. " +
	"El sistema de Machine Learning ha detectado el género: %s. " +
	"Actúa como un bibliotecario experto y recomienda %d libros específicos (con autor) que encajen perfectamente. " +
	"Incluye una breve y atractiva frase de por qué leer cada uno."

// Build returns the librarian prompt for query and the detected label.
// The query is embedded verbatim.
func Build(query string, label genre.Label) string {
	return fmt.Sprintf(librarianTemplate, query, label, BookCount)
}
