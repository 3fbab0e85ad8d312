// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides transport-level HTTP middleware.

Request-aware middleware (request IDs, security headers, rate limiting,
Prometheus instrumentation) lives in internal/api next to the router
that wires it; this package holds middleware with no dependency on the
API layer.

Key Components:

  - Compression: gzip compression for clients sending
    Accept-Encoding: gzip

Usage Example:

	r.Route("/api/v1/movies", func(r chi.Router) {
	    r.Use(middleware.Compression())
	    ...
	})

Thread Safety:

Compression pools gzip writers with sync.Pool; each request holds its
writer exclusively between Get and Put.
*/
package middleware
