// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"strings"
	"time"
)

// Movie is a single catalog entry. Genres is the raw pipe-separated token
// list from the catalog file ("Action|Sci-Fi"); use GenreList for the split
// form.
type Movie struct {
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`
}

// GenreList splits the pipe-separated genre field into individual tokens.
// Empty segments are dropped, so "Action||Drama" yields two tokens.
func (m Movie) GenreList() []string {
	if m.Genres == "" {
		return nil
	}
	parts := strings.Split(m.Genres, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RatingEvent is one observed user-movie rating from the event log.
type RatingEvent struct {
	UserID  int     `json:"user_id"`
	MovieID int     `json:"movie_id"`
	Rating  float64 `json:"rating"`
}

// Catalog holds the movie catalog in file order with an ID lookup index.
type Catalog struct {
	Movies []Movie     `json:"movies"`
	ByID   map[int]int `json:"-"`
}

// NewCatalog builds a catalog from a movie list, preserving input order.
// Duplicate IDs keep the first occurrence in the index.
func NewCatalog(movies []Movie) *Catalog {
	c := &Catalog{
		Movies: movies,
		ByID:   make(map[int]int, len(movies)),
	}
	for i, m := range movies {
		if _, ok := c.ByID[m.MovieID]; !ok {
			c.ByID[m.MovieID] = i
		}
	}
	return c
}

// Get returns the movie with the given ID. The boolean is false when the
// ID is not in the catalog; unknown IDs are not an error.
func (c *Catalog) Get(movieID int) (Movie, bool) {
	if c == nil {
		return Movie{}, false
	}
	i, ok := c.ByID[movieID]
	if !ok {
		return Movie{}, false
	}
	return c.Movies[i], true
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Movies)
}

// InteractionMatrix is the dense user-by-movie rating matrix produced by
// the builder. Rows follow UserIDs, columns follow MovieIDs, both sorted
// ascending. A zero cell means "not rated"; observed ratings are always
// positive.
type InteractionMatrix struct {
	Values     [][]float64 `json:"-"`
	UserIDs    []int       `json:"user_ids"`
	MovieIDs   []int       `json:"movie_ids"`
	UserIndex  map[int]int `json:"-"`
	MovieIndex map[int]int `json:"-"`
}

// Users returns the number of matrix rows.
func (m *InteractionMatrix) Users() int {
	if m == nil {
		return 0
	}
	return len(m.UserIDs)
}

// Movies returns the number of matrix columns.
func (m *InteractionMatrix) Movies() int {
	if m == nil {
		return 0
	}
	return len(m.MovieIDs)
}

// Column copies column j into a new slice. Callers own the result.
func (m *InteractionMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.Values))
	for i := range m.Values {
		col[i] = m.Values[i][j]
	}
	return col
}

// SimilarityModel is the square movie-movie cosine similarity matrix.
// Row and column order both follow MovieIDs, which matches the column
// order of the interaction matrix it was built from.
type SimilarityModel struct {
	Values   [][]float64 `json:"-"`
	MovieIDs []int       `json:"movie_ids"`
	Index    map[int]int `json:"-"`
}

// Movies returns the number of movies covered by the model.
func (s *SimilarityModel) Movies() int {
	if s == nil {
		return 0
	}
	return len(s.MovieIDs)
}

// PopularityEntry is the Bayesian weighted rating for one movie.
type PopularityEntry struct {
	MovieID    int     `json:"movie_id"`
	AvgRating  float64 `json:"avg_rating"`
	NumRatings int     `json:"num_ratings"`
	Score      float64 `json:"score"`
}

// PopularityIndex holds popularity entries in interaction-matrix column
// order with an ID lookup index.
type PopularityIndex struct {
	Entries []PopularityEntry `json:"entries"`
	Index   map[int]int       `json:"-"`
}

// Get returns the popularity entry for a movie ID. The boolean is false
// when the movie is not in the trained model.
func (p *PopularityIndex) Get(movieID int) (PopularityEntry, bool) {
	if p == nil {
		return PopularityEntry{}, false
	}
	i, ok := p.Index[movieID]
	if !ok {
		return PopularityEntry{}, false
	}
	return p.Entries[i], true
}

// ScoredMovie is a single ranked result returned by query operations.
// Score carries whichever score the operation ranks by (popularity score,
// cosine similarity or predicted preference).
type ScoredMovie struct {
	MovieID    int     `json:"movie_id"`
	Title      string  `json:"title"`
	Genres     string  `json:"genres,omitempty"`
	Score      float64 `json:"score"`
	AvgRating  float64 `json:"avg_rating,omitempty"`
	NumRatings int     `json:"num_ratings,omitempty"`
}

// BuildInfo records how a snapshot was produced, for diagnostics and the
// health endpoint. All fields are exported so the snapshot round-trips
// through gob unchanged.
type BuildInfo struct {
	BuiltAt       time.Time     `json:"built_at"`
	Duration      time.Duration `json:"duration"`
	Trigger       string        `json:"trigger"`
	MovieRows     int           `json:"movie_rows"`
	RatingRows    int           `json:"rating_rows"`
	SampledEvents int           `json:"sampled_events"`
	MatrixUsers   int           `json:"matrix_users"`
	MatrixMovies  int           `json:"matrix_movies"`
	MaxUsers      int           `json:"max_users"`
	MaxEvents     int           `json:"max_events"`
	MinRatings    int           `json:"min_ratings"`
	SampleSeed    int64         `json:"sample_seed"`
}
