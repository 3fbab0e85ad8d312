// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

// buildSnapshot runs the full pipeline over in-memory data. The default
// sampler limits are far above test sizes, so sampling never interferes.
func buildSnapshot(t *testing.T, movies []Movie, events []RatingEvent, minRatings int) *Snapshot {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Matrix.MinRatings = minRatings
	snap, err := NewBuilder(cfg, zerolog.Nop()).Build(context.Background(), movies, events, "test")
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	return snap
}

func threeMovieCatalog() []Movie {
	return []Movie{
		{MovieID: 1, Title: "A", Genres: "Drama"},
		{MovieID: 2, Title: "B", Genres: "Comedy"},
		{MovieID: 3, Title: "C", Genres: "Drama|Thriller"},
	}
}

// Users who rate movie 1 highly also rate movie 3 highly but leave
// movie 2 alone (or rate it low), so items 1 and 3 co-occur while 1 and
// 2 do not.
func coRatingEvents() []RatingEvent {
	return []RatingEvent{
		{UserID: 1, MovieID: 1, Rating: 5},
		{UserID: 1, MovieID: 2, Rating: 1},
		{UserID: 2, MovieID: 1, Rating: 5},
		{UserID: 1, MovieID: 3, Rating: 5},
		{UserID: 2, MovieID: 3, Rating: 5},
	}
}

func TestSimilarityScenarioCoRatedMovies(t *testing.T) {
	snap := buildSnapshot(t, threeMovieCatalog(), coRatingEvents(), 1)

	if got := snap.Matrix.Movies(); got != 3 {
		t.Fatalf("retained %d movies, want all 3", got)
	}

	i1 := snap.Similarity.Index[1]
	sim13 := snap.Similarity.Values[i1][snap.Similarity.Index[3]]
	sim12 := snap.Similarity.Values[i1][snap.Similarity.Index[2]]
	if sim13 <= sim12 {
		t.Errorf("co-rated movies should be more similar: sim(1,3)=%v, sim(1,2)=%v", sim13, sim12)
	}

	// The same ordering must come out of the query surface.
	got := snap.Similar(1, 2)
	if len(got) != 2 {
		t.Fatalf("Similar(1,2) returned %d movies, want 2", len(got))
	}
	if got[0].MovieID != 3 {
		t.Errorf("most similar to movie 1 = %d, want 3", got[0].MovieID)
	}
}

func TestPopularOrdering(t *testing.T) {
	// Movie 3 is rated by more users at the top rating; it must lead.
	snap := buildSnapshot(t, threeMovieCatalog(), coRatingEvents(), 1)

	got := snap.Popular(3)
	if len(got) != 3 {
		t.Fatalf("Popular(3) returned %d movies, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("results not sorted by score: %v before %v", got[i-1].Score, got[i].Score)
		}
	}
	if got[len(got)-1].MovieID != 2 {
		t.Errorf("lone low-rated movie 2 should rank last, got %d", got[len(got)-1].MovieID)
	}
	if got[0].Title == "" {
		t.Error("results should carry catalog metadata")
	}
}

func TestPopularTieBreakByMovieID(t *testing.T) {
	// Movies 5 and 2 have identical rating patterns, hence identical
	// scores; ascending ID wins.
	movies := []Movie{
		{MovieID: 2, Title: "Two"},
		{MovieID: 5, Title: "Five"},
	}
	events := []RatingEvent{
		{UserID: 1, MovieID: 5, Rating: 4}, {UserID: 2, MovieID: 5, Rating: 4},
		{UserID: 1, MovieID: 2, Rating: 4}, {UserID: 2, MovieID: 2, Rating: 4},
	}
	snap := buildSnapshot(t, movies, events, 1)

	got := snap.Popular(2)
	if len(got) != 2 || got[0].MovieID != 2 || got[1].MovieID != 5 {
		t.Errorf("equal scores should order by ascending movie ID, got %v", ids(got))
	}
}

func TestPopularCapsAtN(t *testing.T) {
	snap := buildSnapshot(t, threeMovieCatalog(), coRatingEvents(), 1)

	if got := snap.Popular(2); len(got) != 2 {
		t.Errorf("Popular(2) returned %d movies", len(got))
	}
	if got := snap.Popular(0); len(got) != 0 {
		t.Errorf("Popular(0) returned %d movies", len(got))
	}
	if got := snap.Popular(50); len(got) != 3 {
		t.Errorf("Popular(50) returned %d movies, want all 3", len(got))
	}
}

func TestPopularEmptyModel(t *testing.T) {
	// Everything is filtered out; popular degrades to empty, not error.
	events := []RatingEvent{{UserID: 1, MovieID: 1, Rating: 5}}
	snap := buildSnapshot(t, threeMovieCatalog(), events, 5)

	got := snap.Popular(10)
	if got == nil {
		t.Fatal("empty result should be a non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("Popular on empty model returned %d movies", len(got))
	}
}

func TestSimilarSelfExclusion(t *testing.T) {
	snap := buildSnapshot(t, threeMovieCatalog(), coRatingEvents(), 1)

	for _, n := range []int{1, 2, 10} {
		for _, sm := range snap.Similar(1, n) {
			if sm.MovieID == 1 {
				t.Errorf("Similar(1,%d) must never include the query movie", n)
			}
		}
	}
}

func TestSimilarUnknownMovie(t *testing.T) {
	snap := buildSnapshot(t, threeMovieCatalog(), coRatingEvents(), 1)

	got := snap.Similar(999, 5)
	if got == nil || len(got) != 0 {
		t.Errorf("unknown movie should give empty slice, got %v", got)
	}
}

func TestForUserFallbackForUnknownUser(t *testing.T) {
	snap := buildSnapshot(t, threeMovieCatalog(), coRatingEvents(), 1)

	got, fallback := snap.ForUser(42, 3)
	if !fallback {
		t.Error("unknown user should be flagged as fallback")
	}
	if want := snap.Popular(3); !reflect.DeepEqual(got, want) {
		t.Errorf("fallback should equal Popular(3):\ngot  %v\nwant %v", got, want)
	}
}

func TestForUserFallbackForAllZeroRow(t *testing.T) {
	// A user row with no positive ratings cannot seed anything.
	matrix := newTestMatrix([][]float64{
		{5, 4},
		{0, 0},
	}, []int{1, 7}, []int{10, 20})
	snap := &Snapshot{
		Catalog:    NewCatalog([]Movie{{MovieID: 10, Title: "X"}, {MovieID: 20, Title: "Y"}}),
		Matrix:     matrix,
		Similarity: BuildSimilarity(matrix),
		Popularity: BuildPopularity(matrix),
	}

	got, fallback := snap.ForUser(7, 2)
	if !fallback {
		t.Error("user with no positive ratings should fall back")
	}
	if want := snap.Popular(2); !reflect.DeepEqual(got, want) {
		t.Error("fallback result should equal Popular")
	}
}

func TestForUserExcludesRatedMovies(t *testing.T) {
	// Movie 4 is the only title user 1 has not rated; it must lead and
	// every rated movie must carry the -1 sentinel.
	events := append(coRatingEvents(), RatingEvent{UserID: 2, MovieID: 4, Rating: 4})
	movies := append(threeMovieCatalog(), Movie{MovieID: 4, Title: "D", Genres: "Action"})
	snap := buildSnapshot(t, movies, events, 1)

	got, fallback := snap.ForUser(1, 4)
	if fallback {
		t.Fatal("known user with ratings should not fall back")
	}
	if len(got) != 4 {
		t.Fatalf("got %d movies, want 4", len(got))
	}
	if got[0].MovieID != 4 {
		t.Errorf("only unrated movie should rank first, got %d", got[0].MovieID)
	}
	if got[0].Score <= 0 {
		t.Errorf("unrated movie score = %v, want positive", got[0].Score)
	}
	for _, sm := range got[1:] {
		if sm.Score != -1 {
			t.Errorf("rated movie %d score = %v, want -1 sentinel", sm.MovieID, sm.Score)
		}
	}
}

func TestSearch(t *testing.T) {
	movies := []Movie{
		{MovieID: 1, Title: "Alpha", Genres: "Drama"},
		{MovieID: 2, Title: "Echo", Genres: "Comedy"},
		{MovieID: 3, Title: "Gamma", Genres: "Drama"},
	}
	// Alpha gets three ratings, Gamma two, Echo one.
	events := []RatingEvent{
		{UserID: 1, MovieID: 1, Rating: 4}, {UserID: 2, MovieID: 1, Rating: 4},
		{UserID: 3, MovieID: 1, Rating: 4}, {UserID: 1, MovieID: 3, Rating: 3},
		{UserID: 2, MovieID: 3, Rating: 3}, {UserID: 1, MovieID: 2, Rating: 5},
	}
	snap := buildSnapshot(t, movies, events, 1)

	t.Run("substring match ordered by rating count", func(t *testing.T) {
		got := snap.Search("a", 10)
		if want := []int{1, 3}; !equalInts(ids(got), want) {
			t.Errorf("Search(a) = %v, want %v", ids(got), want)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := snap.Search("GAMMA", 10)
		if len(got) != 1 || got[0].MovieID != 3 {
			t.Errorf("Search(GAMMA) = %v, want movie 3", ids(got))
		}
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		if got := snap.Search("", 10); len(got) != 0 {
			t.Errorf("empty query returned %d movies", len(got))
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := snap.Search("zebra", 10); got == nil || len(got) != 0 {
			t.Errorf("no-match should give empty slice, got %v", got)
		}
	})

	t.Run("caps at n", func(t *testing.T) {
		if got := snap.Search("a", 1); len(got) != 1 {
			t.Errorf("Search(a, 1) returned %d movies", len(got))
		}
	})
}

func TestSearchWithoutPopularityKeepsCatalogOrder(t *testing.T) {
	// No ratings survive filtering, so matches stay in catalog order.
	movies := []Movie{
		{MovieID: 9, Title: "Gamma"},
		{MovieID: 4, Title: "Alpha"},
	}
	snap := buildSnapshot(t, movies, nil, 3)

	got := snap.Search("a", 10)
	if want := []int{9, 4}; !equalInts(ids(got), want) {
		t.Errorf("Search without popularity = %v, want catalog order %v", ids(got), want)
	}
}

func TestMovieDetail(t *testing.T) {
	snap := buildSnapshot(t, threeMovieCatalog(), coRatingEvents(), 1)

	t.Run("known movie with stats", func(t *testing.T) {
		got, ok := snap.MovieDetail(1)
		if !ok {
			t.Fatal("movie 1 should be found")
		}
		if got.Title != "A" || got.NumRatings != 2 {
			t.Errorf("detail = %+v, want title A with 2 ratings", got)
		}
	})

	t.Run("unknown movie is soft", func(t *testing.T) {
		if _, ok := snap.MovieDetail(999); ok {
			t.Error("unknown movie should report ok=false")
		}
	})
}

func TestGenres(t *testing.T) {
	movies := []Movie{
		{MovieID: 1, Title: "A", Genres: "Drama|Action"},
		{MovieID: 2, Title: "B", Genres: "Action|Comedy"},
		{MovieID: 3, Title: "C", Genres: ""},
	}
	snap := buildSnapshot(t, movies, nil, 3)

	got := snap.Genres()
	want := []string{"Action", "Comedy", "Drama"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Genres() = %v, want %v", got, want)
	}
}

func TestByGenre(t *testing.T) {
	movies := []Movie{
		{MovieID: 1, Title: "A", Genres: "Drama"},
		{MovieID: 2, Title: "B", Genres: "Comedy"},
		{MovieID: 3, Title: "C", Genres: "Drama|Thriller"},
		{MovieID: 4, Title: "D", Genres: "Drama"},
	}
	snap := buildSnapshot(t, movies, coRatingEvents(), 1)

	t.Run("matches are case-insensitive substrings", func(t *testing.T) {
		got := snap.ByGenre("drama", 10)
		if len(got) != 3 {
			t.Fatalf("ByGenre(drama) returned %d movies, want 3", len(got))
		}
		for _, sm := range got {
			if sm.MovieID == 2 {
				t.Error("comedy movie should not match drama")
			}
		}
	})

	t.Run("scored movies first, unscored last", func(t *testing.T) {
		got := snap.ByGenre("drama", 10)
		// Movie 4 has no ratings, so no popularity entry; it must
		// trail the scored drama titles.
		if got[len(got)-1].MovieID != 4 {
			t.Errorf("unscored movie should rank last, got order %v", ids(got))
		}
		if got[0].Score < got[1].Score {
			t.Error("scored matches should order by descending score")
		}
	})

	t.Run("all is an alias for popular", func(t *testing.T) {
		if !reflect.DeepEqual(snap.ByGenre("all", 3), snap.Popular(3)) {
			t.Error("ByGenre(all) should equal Popular")
		}
		if !reflect.DeepEqual(snap.ByGenre("", 3), snap.Popular(3)) {
			t.Error("empty genre should equal Popular")
		}
	})

	t.Run("unknown genre", func(t *testing.T) {
		if got := snap.ByGenre("western", 10); len(got) != 0 {
			t.Errorf("unknown genre returned %d movies", len(got))
		}
	})
}

func TestRatingsSampleBounded(t *testing.T) {
	var events []RatingEvent
	for u := 1; u <= 20; u++ {
		for m := 1; m <= 10; m++ {
			events = append(events, RatingEvent{UserID: u, MovieID: m, Rating: 3})
		}
	}
	snap := buildSnapshot(t, threeMovieCatalog(), events, 1)

	if len(snap.RatingsSample) > 100 {
		t.Errorf("audit sample holds %d events, want at most 100", len(snap.RatingsSample))
	}
	if len(snap.RatingsSample) == 0 {
		t.Error("audit sample should not be empty for a non-trivial build")
	}
}

func ids(movies []ScoredMovie) []int {
	out := make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.MovieID
	}
	return out
}
