// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package api

import (
	"net/http"

	"github.com/tomtom215/biblioteca/internal/genre"
	"github.com/tomtom215/biblioteca/internal/models"
)

// Genres lists the labels the classifier can return, the sentinels used
// when it cannot, and the model currently in service.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	labels := genre.Labels()
	genres := make([]string, len(labels))
	for i, l := range labels {
		genres[i] = l.String()
	}

	respondSuccess(w, r, models.GenresResponse{
		Genres:     genres,
		Sentinels:  []string{genre.Unknown.String(), genre.PredictionError.String()},
		Classifier: h.classifierState(),
	})
}
