// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ModelReloader is satisfied by *genre.Classifier.
type ModelReloader interface {
	// ReloadIfChanged swaps in the model file when its modification time
	// differs from the loaded one, reporting whether a swap happened.
	ReloadIfChanged() (bool, error)
}

// ModelReloadService polls the model file and hot-swaps the classifier
// when a retrained model is dropped in place. Requests in flight keep the
// model they started with.
type ModelReloadService struct {
	reloader ModelReloader
	interval time.Duration
	logger   zerolog.Logger
}

// NewModelReloadService creates the reload poller. A non-positive interval
// falls back to one minute; callers skip the service entirely to disable it.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewModelReloadService(reloader ModelReloader, interval time.Duration, logger zerolog.Logger) *ModelReloadService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ModelReloadService{
		reloader: reloader,
		interval: interval,
		logger:   logger.With().Str("service", "model-reload").Logger(),
	}
}

// Serve implements suture.Service. Reload failures are logged and retried
// on the next tick; the previously loaded model stays active.
func (s *ModelReloadService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("Model reload service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Model reload service stopping")
			return ctx.Err()
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *ModelReloadService) check() {
	changed, err := s.reloader.ReloadIfChanged()
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("Genre model reload failed, keeping current model")
	case changed:
		s.logger.Info().Msg("Genre model reloaded")
	}
}

// String implements fmt.Stringer.
func (s *ModelReloadService) String() string {
	return "model-reload-service"
}
