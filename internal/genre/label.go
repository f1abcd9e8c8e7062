// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package genre implements the local book genre classifier: a TF-IDF
// vectorizer feeding a multinomial naive Bayes model, trained offline and
// loaded at startup from a single JSON artifact.
package genre

// Label is a detected book genre or one of the sentinel outcomes.
type Label string

// Genres known to the classifier.
const (
	Fantasia       Label = "Fantasia"
	Policial       Label = "Policial"
	Romance        Label = "Romance"
	CienciaFiccion Label = "Ciencia Ficcion"
	Terror         Label = "Terror"
	Historica      Label = "Historica"
)

// Sentinel labels. Neither is ever produced by a trained model.
const (
	// Unknown is returned while no model is loaded.
	Unknown Label = "Unknown"
	// PredictionError is returned when a loaded model fails to score the input.
	PredictionError Label = "PredictionError"
)

// Labels returns the closed set of genres in display order.
func Labels() []Label {
	return []Label{Fantasia, Policial, Romance, CienciaFiccion, Terror, Historica}
}

// IsGenre reports whether l is one of the six genres.
func (l Label) IsGenre() bool {
	for _, g := range Labels() {
		if l == g {
			return true
		}
	}
	return false
}

// IsSentinel reports whether l is Unknown or PredictionError.
func (l Label) IsSentinel() bool {
	return l == Unknown || l == PredictionError
}

func (l Label) String() string { return string(l) }
