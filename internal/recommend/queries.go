// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"
	"strings"
)

const (
	// userSeedCount is how many of a user's top-rated movies seed the
	// personalized blend.
	userSeedCount = 5

	// ratingScale normalizes ratings into [0, 1] seed weights.
	ratingScale = 5.0
)

// All query operations are pure reads of the snapshot. They never return
// an error: unknown IDs and empty models yield empty results, and the
// caller decides whether that is a 404 or an empty 200. Empty results are
// always non-nil so they serialize as [] rather than null.

// Popular returns the top n movies by Bayesian weighted rating. Ties
// break by ascending movie ID.
func (s *Snapshot) Popular(n int) []ScoredMovie {
	out := make([]ScoredMovie, 0, n)
	if n <= 0 {
		return out
	}

	order := make([]int, len(s.Popularity.Entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := s.Popularity.Entries[order[a]], s.Popularity.Entries[order[b]]
		if ea.Score != eb.Score {
			return ea.Score > eb.Score
		}
		return ea.MovieID < eb.MovieID
	})

	for _, i := range order {
		if len(out) == n {
			break
		}
		e := s.Popularity.Entries[i]
		sm := s.scoredMovie(e.MovieID, e.Score)
		out = append(out, sm)
	}
	return out
}

// Similar returns the n movies most similar to the given one, excluding
// the movie itself. An ID outside the trained model yields an empty
// slice; the movie may still exist in the catalog.
func (s *Snapshot) Similar(movieID, n int) []ScoredMovie {
	out := make([]ScoredMovie, 0, n)
	if n <= 0 {
		return out
	}
	j, ok := s.Similarity.Index[movieID]
	if !ok {
		return out
	}
	row := s.Similarity.Values[j]

	order := make([]int, 0, len(row)-1)
	for k := range row {
		if s.Similarity.MovieIDs[k] != movieID {
			order = append(order, k)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})

	for _, k := range order {
		if len(out) == n {
			break
		}
		out = append(out, s.scoredMovie(s.Similarity.MovieIDs[k], row[k]))
	}
	return out
}

// ForUser returns personalized recommendations for a user. The user's
// top-rated movies seed a weighted blend of similarity rows; movies the
// user already rated are pushed to the bottom with score -1. A user
// outside the matrix, or one with no positive ratings, falls back to
// Popular; the second return value reports that fallback.
func (s *Snapshot) ForUser(userID, n int) ([]ScoredMovie, bool) {
	if n <= 0 {
		return make([]ScoredMovie, 0), false
	}
	i, ok := s.Matrix.UserIndex[userID]
	if !ok {
		return s.Popular(n), true
	}
	row := s.Matrix.Values[i]

	rated := make([]int, 0, len(row))
	for k, v := range row {
		if v > 0 {
			rated = append(rated, k)
		}
	}
	if len(rated) == 0 {
		return s.Popular(n), true
	}

	seeds := make([]int, len(rated))
	copy(seeds, rated)
	sort.SliceStable(seeds, func(a, b int) bool {
		return row[seeds[a]] > row[seeds[b]]
	})
	if len(seeds) > userSeedCount {
		seeds = seeds[:userSeedCount]
	}

	scores := make([]float64, len(row))
	for _, j := range seeds {
		weight := row[j] / ratingScale
		simRow := s.Similarity.Values[j]
		for k := range scores {
			scores[k] += weight * simRow[k]
		}
	}
	for k := range scores {
		scores[k] /= float64(len(seeds))
	}
	for _, k := range rated {
		scores[k] = -1
	}

	order := make([]int, len(scores))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	out := make([]ScoredMovie, 0, n)
	for _, k := range order {
		if len(out) == n {
			break
		}
		out = append(out, s.scoredMovie(s.Matrix.MovieIDs[k], scores[k]))
	}
	return out, false
}

// Search matches query case-insensitively against catalog titles.
// Matches with popularity data come first, most-rated first; movies the
// model never saw follow in catalog order. An empty query matches
// nothing.
func (s *Snapshot) Search(query string, n int) []ScoredMovie {
	out := make([]ScoredMovie, 0, n)
	if n <= 0 || query == "" {
		return out
	}
	q := strings.ToLower(query)

	var matches []Movie
	for _, m := range s.Catalog.Movies {
		if strings.Contains(strings.ToLower(m.Title), q) {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		ea, okA := s.Popularity.Get(matches[a].MovieID)
		eb, okB := s.Popularity.Get(matches[b].MovieID)
		if okA != okB {
			return okA
		}
		return okA && ea.NumRatings > eb.NumRatings
	})

	for _, m := range matches {
		if len(out) == n {
			break
		}
		var score float64
		if e, ok := s.Popularity.Get(m.MovieID); ok {
			score = e.Score
		}
		out = append(out, s.scoredMovie(m.MovieID, score))
	}
	return out
}

// MovieDetail looks up one catalog entry joined with its popularity
// data. The boolean is false when the ID is not in the catalog.
func (s *Snapshot) MovieDetail(movieID int) (ScoredMovie, bool) {
	if _, ok := s.Catalog.Get(movieID); !ok {
		return ScoredMovie{}, false
	}
	var score float64
	if e, ok := s.Popularity.Get(movieID); ok {
		score = e.Score
	}
	return s.scoredMovie(movieID, score), true
}

// Genres returns the sorted set of distinct genre tokens across the
// catalog.
func (s *Snapshot) Genres() []string {
	set := make(map[string]struct{})
	for _, m := range s.Catalog.Movies {
		for _, g := range m.GenreList() {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// ByGenre returns movies whose genre list matches the given genre
// case-insensitively, best popularity score first with unscored movies
// last. An empty genre or "all" is an alias for Popular.
func (s *Snapshot) ByGenre(genre string, n int) []ScoredMovie {
	if genre == "" || strings.EqualFold(genre, "all") {
		return s.Popular(n)
	}
	out := make([]ScoredMovie, 0, n)
	if n <= 0 {
		return out
	}
	g := strings.ToLower(genre)

	var matches []Movie
	for _, m := range s.Catalog.Movies {
		if strings.Contains(strings.ToLower(m.Genres), g) {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		ea, okA := s.Popularity.Get(matches[a].MovieID)
		eb, okB := s.Popularity.Get(matches[b].MovieID)
		if okA != okB {
			return okA
		}
		return okA && ea.Score > eb.Score
	})

	for _, m := range matches {
		if len(out) == n {
			break
		}
		var score float64
		if e, ok := s.Popularity.Get(m.MovieID); ok {
			score = e.Score
		}
		out = append(out, s.scoredMovie(m.MovieID, score))
	}
	return out
}

// scoredMovie joins a movie ID with catalog metadata and popularity
// stats. Score is supplied by the caller since each operation ranks by a
// different quantity.
func (s *Snapshot) scoredMovie(movieID int, score float64) ScoredMovie {
	sm := ScoredMovie{MovieID: movieID, Score: score}
	if m, ok := s.Catalog.Get(movieID); ok {
		sm.Title = m.Title
		sm.Genres = m.Genres
	}
	if e, ok := s.Popularity.Get(movieID); ok {
		sm.AvgRating = e.AvgRating
		sm.NumRatings = e.NumRatings
	}
	return sm
}
