// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math"
	"testing"
)

func TestBuildPopularityWeightedScore(t *testing.T) {
	// Movie 10: ratings (5,5) -> v=2, R=5. Movie 20: ratings (3,3,3)
	// -> v=3, R=3. Prior m = p60 of [2,3] = 2.6, global mean C = 4.
	m := newTestMatrix([][]float64{
		{5, 3},
		{5, 3},
		{0, 3},
	}, []int{1, 2, 3}, []int{10, 20})

	p := BuildPopularity(m)

	e10, ok := p.Get(10)
	if !ok {
		t.Fatal("movie 10 missing from popularity index")
	}
	if e10.NumRatings != 2 || !approxEqual(e10.AvgRating, 5) {
		t.Errorf("movie 10 stats = (%d, %v), want (2, 5)", e10.NumRatings, e10.AvgRating)
	}
	wantScore10 := (2.0/4.6)*5 + (2.6/4.6)*4
	if !approxEqual(e10.Score, wantScore10) {
		t.Errorf("movie 10 score = %v, want %v", e10.Score, wantScore10)
	}

	e20, _ := p.Get(20)
	wantScore20 := (3.0/5.6)*3 + (2.6/5.6)*4
	if !approxEqual(e20.Score, wantScore20) {
		t.Errorf("movie 20 score = %v, want %v", e20.Score, wantScore20)
	}
}

func TestBuildPopularityMonotonicity(t *testing.T) {
	// Movies 10 and 20 share avg 5 but differ in count; movie 30 drags
	// the global mean C below 5. More ratings must pull the score
	// strictly closer to the movie's own average.
	m := newTestMatrix([][]float64{
		{5, 5, 1},
		{5, 5, 1},
		{0, 5, 1},
		{0, 5, 0},
		{0, 5, 0},
	}, []int{1, 2, 3, 4, 5}, []int{10, 20, 30})

	p := BuildPopularity(m)

	few, _ := p.Get(10)
	many, _ := p.Get(20)
	if !approxEqual(few.AvgRating, many.AvgRating) {
		t.Fatalf("setup broken: averages differ (%v vs %v)", few.AvgRating, many.AvgRating)
	}
	distFew := math.Abs(few.Score - few.AvgRating)
	distMany := math.Abs(many.Score - many.AvgRating)
	if distMany >= distFew {
		t.Errorf("movie with more ratings should score closer to its average: %v vs %v",
			distMany, distFew)
	}
}

func TestBuildPopularityEntriesInColumnOrder(t *testing.T) {
	m := newTestMatrix([][]float64{
		{4, 2, 5},
		{3, 1, 5},
	}, []int{1, 2}, []int{7, 30, 100})

	p := BuildPopularity(m)

	if len(p.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(p.Entries))
	}
	for j, id := range m.MovieIDs {
		if p.Entries[j].MovieID != id {
			t.Errorf("entry %d movie = %d, want column order %d", j, p.Entries[j].MovieID, id)
		}
		if p.Index[id] != j {
			t.Errorf("Index[%d] = %d, want %d", id, p.Index[id], j)
		}
	}
}

func TestBuildPopularityZeroRatedMovie(t *testing.T) {
	// A column with no ratings scores exactly the global mean.
	m := newTestMatrix([][]float64{
		{4, 0},
		{4, 0},
	}, []int{1, 2}, []int{10, 20})

	p := BuildPopularity(m)

	e, ok := p.Get(20)
	if !ok {
		t.Fatal("zero-rated movie should still have an entry")
	}
	if e.NumRatings != 0 {
		t.Errorf("NumRatings = %d, want 0", e.NumRatings)
	}
	if !approxEqual(e.Score, 4.0) {
		t.Errorf("zero-rated movie score = %v, want global mean 4", e.Score)
	}
}

func TestBuildPopularityEmptyMatrix(t *testing.T) {
	p := BuildPopularity(BuildMatrix(nil, 1))

	if len(p.Entries) != 0 {
		t.Errorf("empty matrix should give empty index, got %d entries", len(p.Entries))
	}
	if _, ok := p.Get(1); ok {
		t.Error("lookup on empty index should miss")
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		q      float64
		want   float64
	}{
		{"single value", []int{10}, 0.6, 10},
		{"two values interpolated", []int{1, 3}, 0.6, 2.2},
		{"five values interpolated", []int{1, 2, 3, 4, 5}, 0.6, 3.4},
		{"all equal", []int{2, 2, 2}, 0.6, 2},
		{"unsorted input", []int{5, 1, 3}, 0.5, 3},
		{"maximum", []int{1, 2, 3}, 1.0, 3},
		{"minimum", []int{1, 2, 3}, 0.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.values, tt.q); !approxEqual(got, tt.want) {
				t.Errorf("percentile(%v, %v) = %v, want %v", tt.values, tt.q, got, tt.want)
			}
		})
	}
}
