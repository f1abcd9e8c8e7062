// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

/*
Package main is the entry point for the Biblioteca server.

Biblioteca classifies what a reader says they want (typed text, a photo of
printed text, or a short voice note) into one of six book genres with a
local Naive Bayes model, then asks Gemini for three book suggestions in
Spanish.

# Application Architecture

	RootSupervisor ("biblioteca")
	├── ClassifierSupervisor ("classifier-layer")
	│   └── Model reload poller (when MODEL_RELOAD_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (/api/v1, /metrics)

Initialization order:

 1. Configuration: Koanf v2 (defaults, .env, config.yaml, environment)
 2. Logging: zerolog from LOG_LEVEL, LOG_FORMAT, LOG_CALLER
 3. Classifier: loads MODEL_PATH; runs disabled when the file is missing
 4. Recommender: Gemini client behind a rate limiter and circuit breaker
 5. Adapters: OCR and speech-to-text when enabled
 6. HTTP Server: chi router under the supervisor tree

# Required Configuration

	API_KEY=...            # or GEMINI_API_KEY
	MODEL_PATH=modelo_libros.json

Train a model with the companion command:

	go run ./cmd/train -out modelo_libros.json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
HTTP_SHUTDOWN_TIMEOUT and services that fail to stop are reported.
*/
package main
