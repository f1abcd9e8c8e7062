// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

/*
Package services adapts Biblioteca components to suture.Service.

Each wrapper translates a component lifecycle into suture's context-aware
Serve method and implements fmt.Stringer so supervisor events name it.

# Available Services

HTTPServerService (api layer):
  - Wraps *http.Server, or anything with ListenAndServe and Shutdown
  - Drains connections with a bounded Shutdown when the tree stops
  - Returns listener failures so the supervisor restarts the server

ModelReloadService (classifier layer):
  - Polls the persisted genre model on a fixed interval
  - Hot-swaps the classifier when the file's modification time changes
  - Logs reload failures and keeps serving the current model

# Return Values

	nil        -> stopped cleanly, not restarted
	error      -> crashed, restarted with backoff
	ctx.Err()  -> shutdown requested

# Usage

	logger := logging.Logger()
	tree.AddClassifierService(services.NewModelReloadService(classifier, cfg.Classifier.ReloadInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
*/
package services
