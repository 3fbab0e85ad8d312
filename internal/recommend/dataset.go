// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column positions are discovered from the header row, not assumed, so
// catalogs with extra or reordered columns load fine. Header names are
// matched after lowercasing and stripping underscores, which makes
// "movieId", "movie_id" and "MOVIEID" equivalent.
func normalizeHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "")
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

func requireColumns(idx map[string]int, file string, names ...string) error {
	for _, name := range names {
		if _, ok := idx[name]; !ok {
			return fmt.Errorf("%s: missing required column %q", file, name)
		}
	}
	return nil
}

// LoadMovies reads the movie catalog CSV. Rows are returned in file
// order; a malformed row is a fatal load error.
func LoadMovies(path string) ([]Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open movie catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read movie catalog header: %w", err)
	}
	idx := headerIndex(header)
	if err := requireColumns(idx, "movie catalog", "movieid", "title", "genres"); err != nil {
		return nil, err
	}

	var movies []Movie
	row := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read movie catalog row %d: %w", row, err)
		}
		row++

		id, err := strconv.Atoi(strings.TrimSpace(rec[idx["movieid"]]))
		if err != nil {
			return nil, fmt.Errorf("movie catalog row %d: parse movie id %q: %w", row, rec[idx["movieid"]], err)
		}
		movies = append(movies, Movie{
			MovieID: id,
			Title:   rec[idx["title"]],
			Genres:  rec[idx["genres"]],
		})
	}
	return movies, nil
}

// LoadRatings reads the rating event CSV in log order. When maxRows is
// positive, reading stops after that many data rows; the rest of the
// file is never parsed. A timestamp column, if present, is ignored.
func LoadRatings(path string, maxRows int) ([]RatingEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rating log: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read rating log header: %w", err)
	}
	idx := headerIndex(header)
	if err := requireColumns(idx, "rating log", "userid", "movieid", "rating"); err != nil {
		return nil, err
	}

	var events []RatingEvent
	row := 1
	for maxRows <= 0 || len(events) < maxRows {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rating log row %d: %w", row, err)
		}
		row++

		userID, err := strconv.Atoi(strings.TrimSpace(rec[idx["userid"]]))
		if err != nil {
			return nil, fmt.Errorf("rating log row %d: parse user id %q: %w", row, rec[idx["userid"]], err)
		}
		movieID, err := strconv.Atoi(strings.TrimSpace(rec[idx["movieid"]]))
		if err != nil {
			return nil, fmt.Errorf("rating log row %d: parse movie id %q: %w", row, rec[idx["movieid"]], err)
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(rec[idx["rating"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("rating log row %d: parse rating %q: %w", row, rec[idx["rating"]], err)
		}
		// Zero stands for "no rating" downstream, so a rating must be positive.
		if rating <= 0 || rating > 5 {
			return nil, fmt.Errorf("rating log row %d: rating %v outside (0, 5]", row, rating)
		}
		events = append(events, RatingEvent{UserID: userID, MovieID: movieID, Rating: rating})
	}
	return events, nil
}
