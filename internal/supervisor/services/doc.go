// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services provides suture.Service wrappers for Cinematch components.

Each wrapper adapts a component's lifecycle (ListenAndServe, ticker
loops) into suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Rebuild Service (RebuildService):
  - Retrains the recommendation model on a schedule
  - Persists each snapshot before swapping it into the engine
  - Prunes old stored versions after a successful swap
  - A failed rebuild keeps the previous snapshot serving

# Usage Example

	tree, _ := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())

	httpSvc := services.NewHTTPServerService(server, 30*time.Second)
	tree.AddAPIService(httpSvc)

	rebuildSvc := services.NewRebuildService(engine, store, rebuildCfg, logger)
	tree.AddTrainingService(rebuildSvc)

	tree.Serve(ctx)

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

A failed rebuild cycle is deliberately NOT returned from Serve: the
service logs it and waits for the next tick, because restarting the
whole loop would rerun the startup build for no benefit.

# Thread Safety

Service wrappers hold no shared mutable state. Multiple Serve calls on
one wrapper are not supported.
*/
package services
