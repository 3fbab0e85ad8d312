// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinematch/internal/middleware"
)

// Router sets up HTTP routes using the chi router.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a new router with all routes configured.
func NewRouter(handler *Handler, mwConfig *MiddlewareConfig) *Router {
	return &Router{
		handler:    handler,
		middleware: NewMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order. CORS must be
	// global so OPTIONS preflight requests are handled before routing.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())

	// Unknown routes and wrong methods get the standard envelope
	// rather than chi's plain-text defaults.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusNotFound, ErrCodeNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// Health endpoints get permissive rate limiting (1000/min) so
	// orchestrators and monitoring can poll frequently.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Use(SecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Catalog endpoints. Static segments are registered alongside the
	// {movieID} wildcard; chi prefers static matches, so /popular and
	// friends never collide with the ID routes.
	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(middleware.Compression())
		r.Use(PrometheusMetrics())
		r.Use(RequestLogging())

		r.Get("/popular", router.handler.Popular)
		r.Get("/search", router.handler.Search)
		r.Get("/genres", router.handler.Genres)
		r.Get("/by-genre", router.handler.ByGenre)
		r.Get("/{movieID}", router.handler.MovieDetail)
		r.Get("/{movieID}/similar", router.handler.Similar)
	})

	// Personalized recommendation endpoints.
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(middleware.Compression())
		r.Use(PrometheusMetrics())
		r.Use(RequestLogging())

		r.Get("/user/{userID}", router.handler.Recommendations)
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
