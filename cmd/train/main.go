// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Command train fits the genre model and writes it where the server loads it.
//
//	train -out modelo_libros.json
//	train -corpus corpus.yaml -out /models/modelo_libros.json
//
// Without -corpus the built-in twelve-example corpus is used. After saving,
// the model is reloaded from disk and a smoke phrase is classified to
// confirm the file is usable.
package main

import (
	"flag"
	"os"

	"github.com/tomtom215/biblioteca/internal/genre"
	"github.com/tomtom215/biblioteca/internal/logging"
)

const smokePhrase = "un relato de naves en el espacio"

func main() {
	out := flag.String("out", "modelo_libros.json", "path to write the trained model")
	corpusPath := flag.String("corpus", "", "optional YAML corpus (defaults to the built-in corpus)")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Init(logging.Config{Level: *logLevel, Format: "console", Timestamp: true})

	if err := run(*out, *corpusPath); err != nil {
		logging.Error().Err(err).Msg("Training failed")
		os.Exit(1)
	}
}

func run(out, corpusPath string) error {
	examples := genre.DefaultCorpus()
	if corpusPath != "" {
		loaded, err := genre.LoadCorpus(corpusPath)
		if err != nil {
			return err
		}
		examples = loaded
	}

	model, err := genre.Train(examples)
	if err != nil {
		return err
	}
	if err := model.Save(out); err != nil {
		return err
	}

	logging.Info().
		Str("path", out).
		Int("training_examples", model.Examples).
		Int("vocabulary_size", model.Vectorizer.Size()).
		Msg("Genre model saved")

	reloaded, err := genre.Load(out)
	if err != nil {
		return err
	}
	label, err := reloaded.Predict(smokePhrase)
	if err != nil {
		// The model is saved; an unscorable smoke phrase is not fatal.
		logging.Warn().Err(err).Str("text", smokePhrase).Msg("Smoke prediction failed")
		return nil
	}
	logging.Info().Str("text", smokePhrase).Str("genre", label.String()).Msg("Smoke prediction")
	return nil
}
