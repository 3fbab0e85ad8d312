// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
)

// Recommendations handles GET /api/v1/recommendations/user/{userID}.
// Returns personalized recommendations built from the similarity
// neighborhoods of the user's top-rated movies. Users absent from the
// training sample receive the popularity ranking instead, flagged with
// "fallback": "popular" so clients can label the list honestly.
//
// Query parameters:
//   - n: number of movies to return (1-100, default 10)
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := pathID(r, "userID")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	n, ok := h.parseCount(rw, r, defaultNeighborCount)
	if !ok {
		return
	}

	movies, fallback, recErr := h.engine.ForUser(r.Context(), userID, n)
	if recErr != nil {
		respondEngineError(rw, recErr)
		return
	}

	data := map[string]interface{}{
		"user_id": userID,
		"movies":  movies,
		"count":   len(movies),
	}
	if fallback {
		data["fallback"] = "popular"
	}

	rw.Success(data)
}
