// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, health endpoints (this file)
//   - handlers_movies.go: catalog and similarity endpoints
//   - handlers_recommend.go: personalized recommendation endpoints
type Handler struct {
	engine    *recommend.Engine
	cfg       HandlerConfig
	startTime time.Time
}

// HandlerConfig holds response shaping limits for the handlers.
type HandlerConfig struct {
	// DefaultPageSize is the result count when a request omits n.
	DefaultPageSize int

	// MaxPageSize caps the n query parameter after validation.
	MaxPageSize int
}

// DefaultHandlerConfig returns the limits the original service shipped
// with.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

// defaultNeighborCount is the default n for the similar and user
// recommendation endpoints, which return shorter lists than the
// browsing endpoints.
const defaultNeighborCount = 10

// NewHandler creates a new API handler serving queries from the engine.
func NewHandler(engine *recommend.Engine, cfg HandlerConfig) *Handler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return &Handler{
		engine:    engine,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// respondEngineError maps engine errors to the API envelope. A missing
// model is a 503 so load balancers take the instance out of rotation
// until a snapshot is installed.
func respondEngineError(rw *ResponseWriter, err error) {
	if errors.Is(err, recommend.ErrNotReady) {
		rw.ServiceUnavailable("Recommendation model not ready")
		return
	}
	rw.InternalError("Failed to process request")
}

// parseCount extracts and validates the n query parameter. On failure
// it writes the error response and returns ok=false. Values above the
// configured maximum are clamped rather than rejected.
func (h *Handler) parseCount(rw *ResponseWriter, r *http.Request, defaultN int) (int, bool) {
	n, err := queryInt(r, "n", defaultN)
	if err != nil {
		rw.BadRequest(err.Error())
		return 0, false
	}

	req := ListRequest{N: n}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return 0, false
	}

	if n > h.cfg.MaxPageSize {
		n = h.cfg.MaxPageSize
	}
	return n, true
}

// Health handles GET /api/v1/health.
// Returns overall status plus the installed snapshot's version and shape.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	modelLoaded := h.engine.Ready()
	status := "healthy"
	if !modelLoaded {
		status = "degraded"
	}

	data := map[string]interface{}{
		"status":       status,
		"model_loaded": modelLoaded,
		"uptime":       time.Since(h.startTime).Seconds(),
	}
	if snap := h.engine.Current(); snap != nil {
		data["snapshot"] = map[string]interface{}{
			"version":  h.engine.Version(),
			"built_at": snap.Info.BuiltAt,
			"trigger":  snap.Info.Trigger,
			"movies":   snap.Info.MatrixMovies,
			"users":    snap.Info.MatrixUsers,
			"events":   snap.Info.SampledEvents,
		}
	}

	rw.Success(data)
}

// HealthLive handles GET /api/v1/health/live (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of model state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready (Kubernetes-style).
// Returns 200 only once a model snapshot is installed; 503 before that
// so orchestrators hold traffic until the engine can answer.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ready := h.engine.Ready()

	data := map[string]interface{}{
		"model_loaded":   ready,
		"ready_to_serve": ready,
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if !ready {
		requestID := logging.RequestIDFromContext(r.Context())
		rw.writeJSON(http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Data:    data,
			Error: &APIError{
				Code:      ErrCodeServiceUnavailable,
				Message:   "Recommendation model not ready",
				RequestID: requestID,
			},
			Meta: &APIMeta{
				Timestamp: time.Now(),
				RequestID: requestID,
			},
		})
		return
	}
	rw.Success(data)
}
