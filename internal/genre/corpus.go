// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package genre

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Example is one labelled training document.
type Example struct {
	Text  string `koanf:"text"`
	Label Label  `koanf:"label"`
}

// DefaultCorpus returns the built-in training set: two examples per genre.
func DefaultCorpus() []Example {
	return []Example{
		{"magia dragones espada guerrero aventura hechizo varita elfo enano mundo magico", Fantasia},
		{"una historia de magos y dragones con espadas legendarias y mucha aventura", Fantasia},
		{"crimen detective asesinato misterio policia huellas culpable investigacion forense", Policial},
		{"un detective busca al asesino en un misterio policial lleno de intriga", Policial},
		{"amor romance pareja enamorados boda pasion corazon novios cita romantica", Romance},
		{"historia de amor sobre una pareja de enamorados que planean su boda", Romance},
		{"futuro naves espaciales robots planetas galaxia tecnologia alienigenas cosmos", CienciaFiccion},
		{"viaje al futuro en naves espaciales con robots inteligentes y otros planetas", CienciaFiccion},
		{"fantasmas terror miedo susto sangre oscuro pesadilla monstruo espiritu grito", Terror},
		{"un relato de terror con fantasmas y monstruos en un ambiente oscuro y de miedo", Terror},
		{"historia antigua guerra reyes imperio epoca medieval caballero batalla siglo", Historica},
		{"narración sobre la historia antigua con reyes y batallas de un imperio caido", Historica},
	}
}

// LoadCorpus reads training examples from a YAML file of the form:
//
//	examples:
//	  - text: "magia dragones espada"
//	    label: Fantasia
//
// Labels must belong to the closed genre set.
func LoadCorpus(path string) ([]Example, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load corpus file %s: %w", path, err)
	}

	var examples []Example
	if err := k.Unmarshal("examples", &examples); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file %s: %w", path, err)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("corpus file %s has no examples", path)
	}

	for i, ex := range examples {
		if !ex.Label.IsGenre() {
			return nil, fmt.Errorf("corpus example %d: unknown label %q", i, ex.Label)
		}
	}
	return examples, nil
}
