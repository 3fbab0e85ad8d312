// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"strings"
)

// Popular handles GET /api/v1/movies/popular.
// Returns the top n movies by Bayesian weighted rating.
//
// Query parameters:
//   - n: number of movies to return (1-100, default 20)
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	n, ok := h.parseCount(rw, r, h.cfg.DefaultPageSize)
	if !ok {
		return
	}

	movies, err := h.engine.Popular(r.Context(), n)
	if err != nil {
		respondEngineError(rw, err)
		return
	}

	rw.Success(map[string]interface{}{
		"movies": movies,
		"count":  len(movies),
	})
}

// Search handles GET /api/v1/movies/search.
// Performs a case-insensitive substring match over movie titles,
// returning matches ordered by weighted rating. An empty query yields
// an empty result rather than an error.
//
// Query parameters:
//   - q: search query (max 200 characters)
//   - n: number of movies to return (1-100, default 20)
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("q"))

	n, err := queryInt(r, "n", h.cfg.DefaultPageSize)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	req := SearchRequest{Query: query, N: n}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}
	if n > h.cfg.MaxPageSize {
		n = h.cfg.MaxPageSize
	}

	movies, searchErr := h.engine.Search(r.Context(), query, n)
	if searchErr != nil {
		respondEngineError(rw, searchErr)
		return
	}

	rw.Success(map[string]interface{}{
		"query":  query,
		"movies": movies,
		"count":  len(movies),
	})
}

// MovieDetail handles GET /api/v1/movies/{movieID}.
// Returns a single movie with its rating statistics, or 404 if the
// movie is not in the installed catalog.
func (h *Handler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, err := pathID(r, "movieID")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	movie, found, lookupErr := h.engine.Movie(r.Context(), movieID)
	if lookupErr != nil {
		respondEngineError(rw, lookupErr)
		return
	}
	if !found {
		rw.NotFound("Movie not found")
		return
	}

	rw.Success(movie)
}

// Similar handles GET /api/v1/movies/{movieID}/similar.
// Returns movies with the highest rating-vector cosine similarity to
// the given movie. An unknown movie yields an empty list, not a 404,
// because absence from the similarity model is a data property rather
// than a routing error.
//
// Query parameters:
//   - n: number of movies to return (1-100, default 10)
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, err := pathID(r, "movieID")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	n, ok := h.parseCount(rw, r, defaultNeighborCount)
	if !ok {
		return
	}

	movies, simErr := h.engine.Similar(r.Context(), movieID, n)
	if simErr != nil {
		respondEngineError(rw, simErr)
		return
	}

	rw.Success(map[string]interface{}{
		"movie_id": movieID,
		"movies":   movies,
		"count":    len(movies),
	})
}

// Genres handles GET /api/v1/movies/genres.
// Returns the sorted list of distinct genres in the installed catalog.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	genres, err := h.engine.Genres(r.Context())
	if err != nil {
		respondEngineError(rw, err)
		return
	}

	rw.Success(map[string]interface{}{
		"genres": genres,
		"count":  len(genres),
	})
}

// ByGenre handles GET /api/v1/movies/by-genre.
// Returns the top movies by weighted rating within a genre. An empty
// genre or "all" falls back to the overall popularity ranking.
//
// Query parameters:
//   - genre: genre name (max 100 characters, case-insensitive)
//   - n: number of movies to return (1-100, default 20)
func (h *Handler) ByGenre(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	genre := strings.TrimSpace(r.URL.Query().Get("genre"))

	n, err := queryInt(r, "n", h.cfg.DefaultPageSize)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	req := GenreRequest{Genre: genre, N: n}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}
	if n > h.cfg.MaxPageSize {
		n = h.cfg.MaxPageSize
	}

	movies, genreErr := h.engine.ByGenre(r.Context(), genre, n)
	if genreErr != nil {
		respondEngineError(rw, genreErr)
		return
	}

	rw.Success(map[string]interface{}{
		"genre":  genre,
		"movies": movies,
		"count":  len(movies),
	})
}
