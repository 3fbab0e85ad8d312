// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api provides the HTTP REST API layer for Cinematch.

This package exposes the recommendation engine's query surface as a
read-only JSON API. It is the only interface between clients and the
engine; training and persistence are wired up in cmd and never reachable
over HTTP.

Key Components:

  - Router: Chi route configuration and middleware stack
  - Handler: request handlers for every endpoint
  - Response formatting: standardized JSON envelope with metadata
  - Error handling: consistent error responses with machine-readable codes
  - Rate limiting: per-IP limits with a permissive health tier
  - CORS: Cross-Origin Resource Sharing for browser clients

Endpoints:

1. Health (/api/v1/health):
  - liveness, readiness (ready once a model snapshot is installed),
    and a summary with the installed snapshot's version and shape

2. Movies (/api/v1/movies/):
  - popular: Bayesian weighted-rating ranking
  - search: case-insensitive title substring search
  - {movieID}: single catalog entry with rating stats
  - {movieID}/similar: item-based collaborative filtering neighbors
  - genres: distinct genre tokens across the catalog
  - by-genre: genre-filtered popular ranking

3. Recommendations (/api/v1/recommendations/):
  - user/{userID}: personalized picks from the user's own top-rated
    movies, falling back to the popularity ranking for unknown users

4. Metrics (/metrics):
  - Prometheus exposition

Usage Example:

	engine, _ := recommend.NewEngine(cfg, logger)
	handler := api.NewHandler(engine, api.DefaultHandlerConfig())
	router := api.NewRouter(handler, api.DefaultMiddlewareConfig())

	http.ListenAndServe(":3860", router.Setup())

Thread Safety:

All handlers are safe for concurrent use. The engine serves queries from
an atomically swapped immutable snapshot, so requests never observe a
half-installed model.
*/
package api
