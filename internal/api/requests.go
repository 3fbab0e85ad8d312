// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package api provides HTTP request validation structs with
// go-playground/validator tags. Query parameters are parsed strictly: a
// present but malformed value is a validation error, never a silent
// fallback to the default.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/validation"
)

// ListRequest represents the validated query parameters for plain list
// endpoints (popular, genres).
//
// Fields:
//   - N: result count (1-100, default per route)
type ListRequest struct {
	N int `validate:"min=1,max=100"`
}

// SearchRequest represents the validated query parameters for the
// title search endpoint. An empty query is valid and yields an empty
// result list.
type SearchRequest struct {
	Query string `validate:"max=200"`
	N     int    `validate:"min=1,max=100"`
}

// GenreRequest represents the validated query parameters for the
// by-genre endpoint. An empty genre (or "all") is valid and falls back
// to the popularity ranking.
type GenreRequest struct {
	Genre string `validate:"max=100"`
	N     int    `validate:"min=1,max=100"`
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or an APIError describing the
// failing fields.
func validateRequest(v interface{}) *APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// queryInt extracts an integer query parameter. A missing parameter
// yields the default; a present but non-integer value is an error.
func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

// pathID extracts a positive integer URL parameter set by chi.
func pathID(r *http.Request, key string) (int, error) {
	value := chi.URLParam(r, key)
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, id)
	}
	return id, nil
}
