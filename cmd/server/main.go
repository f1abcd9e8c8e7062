// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/biblioteca/internal/api"
	"github.com/tomtom215/biblioteca/internal/config"
	"github.com/tomtom215/biblioteca/internal/genre"
	"github.com/tomtom215/biblioteca/internal/logging"
	"github.com/tomtom215/biblioteca/internal/ocr"
	"github.com/tomtom215/biblioteca/internal/pipeline"
	"github.com/tomtom215/biblioteca/internal/recommender"
	"github.com/tomtom215/biblioteca/internal/supervisor"
	"github.com/tomtom215/biblioteca/internal/supervisor/services"
	"github.com/tomtom215/biblioteca/internal/transcribe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("model_path", cfg.Classifier.ModelPath).
		Str("gemini_model", cfg.Gemini.Model).
		Str("api_key", logging.MaskSecret(cfg.Gemini.APIKey)).
		Bool("ocr_enabled", cfg.OCR.Enabled).
		Bool("speech_enabled", cfg.Speech.Enabled).
		Msg("Starting Biblioteca")

	classifier := genre.NewClassifier(cfg.Classifier.ModelPath)
	if st := classifier.Status(); st.Loaded {
		logging.Info().
			Int("vocabulary_size", st.Vocabulary).
			Int("training_examples", st.Examples).
			Msg("Genre model loaded")
	}

	rec, breaker := recommender.NewFromConfig(&cfg.Gemini)

	svc := pipeline.NewService(classifier, rec, adapterOptions(cfg)...)

	handler := api.NewHandler(svc, classifier, breaker, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.API)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Classifier.ReloadInterval > 0 {
		tree.AddClassifierService(services.NewModelReloadService(classifier, cfg.Classifier.ReloadInterval, logging.Logger()))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		stop()
	}

	// errCh is closed once the tree has returned; a value already taken
	// above leaves only the close.
	if err, ok := <-errCh; ok && err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor shutdown error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Biblioteca stopped")
}

// adapterOptions builds the OCR and speech adapters that are enabled. An
// adapter that cannot be built is logged and left out so that its endpoint
// answers 503 instead of the server refusing to start.
func adapterOptions(cfg *config.Config) []pipeline.Option {
	var opts []pipeline.Option

	if cfg.OCR.Enabled {
		reader, err := ocr.New(&cfg.OCR)
		if err != nil {
			logging.Warn().Err(err).Msg("OCR adapter unavailable")
		} else {
			opts = append(opts, pipeline.WithOCR(reader))
			logging.Info().Str("backend", cfg.OCR.Backend).Msg("OCR adapter enabled")
		}
	}

	if cfg.Speech.Enabled {
		t, err := transcribe.New(&cfg.Speech)
		if err != nil {
			logging.Warn().Err(err).Msg("Speech adapter unavailable")
		} else {
			opts = append(opts, pipeline.WithSpeech(t))
			logging.Info().Str("backend", cfg.Speech.Backend).Msg("Speech adapter enabled")
		}
	}

	return opts
}
