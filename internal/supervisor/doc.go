// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

/*
Package supervisor provides process supervision for Biblioteca using suture v4.

The supervisor tree separates the two long-running concerns so that one can
restart without disturbing the other:

	RootSupervisor ("biblioteca")
	├── ClassifierSupervisor ("classifier-layer")
	│   └── ModelReloadService (if MODEL_RELOAD_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the reload loop leaves the HTTP server and the model already in
service untouched.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))
	tree.AddClassifierService(services.NewModelReloadService(classifier, cfg.Classifier.ReloadInterval, logging.Logger()))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped with error")
	}

# Configuration

TreeConfig controls restart behavior; zero values take suture's defaults
(5 failures, 30s decay, 15s backoff) and a 10s shutdown timeout.
*/
package supervisor
