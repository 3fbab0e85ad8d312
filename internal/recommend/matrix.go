// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "sort"

type ratingKey struct {
	user  int
	movie int
}

// BuildMatrix pivots sampled events into a dense user-by-movie matrix.
// Duplicate (user, movie) observations collapse to the last one seen.
// Movies rated by fewer than minRatings users are dropped first, then
// users with fewer than minRatings ratings among the surviving movies;
// the two passes run once each, not to a fixed point, so a movie may
// legitimately end up below the threshold after the user pass.
func BuildMatrix(events []RatingEvent, minRatings int) *InteractionMatrix {
	ratings := make(map[ratingKey]float64, len(events))
	for _, e := range events {
		ratings[ratingKey{user: e.UserID, movie: e.MovieID}] = e.Rating
	}

	movieCounts := make(map[int]int)
	for k := range ratings {
		movieCounts[k.movie]++
	}
	keepMovie := make(map[int]struct{}, len(movieCounts))
	for id, n := range movieCounts {
		if n >= minRatings {
			keepMovie[id] = struct{}{}
		}
	}

	userCounts := make(map[int]int)
	for k := range ratings {
		if _, ok := keepMovie[k.movie]; ok {
			userCounts[k.user]++
		}
	}
	keepUser := make(map[int]struct{}, len(userCounts))
	for id, n := range userCounts {
		if n >= minRatings {
			keepUser[id] = struct{}{}
		}
	}

	// Column set: movies from the first pass that still have at least
	// one rating from a surviving user. A movie whose raters were all
	// pruned vanishes rather than leaving an all-zero column.
	finalMovie := make(map[int]struct{}, len(keepMovie))
	for k := range ratings {
		if _, ok := keepMovie[k.movie]; !ok {
			continue
		}
		if _, ok := keepUser[k.user]; !ok {
			continue
		}
		finalMovie[k.movie] = struct{}{}
	}

	userIDs := make([]int, 0, len(keepUser))
	for id := range keepUser {
		userIDs = append(userIDs, id)
	}
	sort.Ints(userIDs)

	movieIDs := make([]int, 0, len(finalMovie))
	for id := range finalMovie {
		movieIDs = append(movieIDs, id)
	}
	sort.Ints(movieIDs)

	m := &InteractionMatrix{
		Values:     make([][]float64, len(userIDs)),
		UserIDs:    userIDs,
		MovieIDs:   movieIDs,
		UserIndex:  make(map[int]int, len(userIDs)),
		MovieIndex: make(map[int]int, len(movieIDs)),
	}
	for i, id := range userIDs {
		m.UserIndex[id] = i
		m.Values[i] = make([]float64, len(movieIDs))
	}
	for j, id := range movieIDs {
		m.MovieIndex[id] = j
	}

	for k, v := range ratings {
		i, okU := m.UserIndex[k.user]
		j, okM := m.MovieIndex[k.movie]
		if okU && okM {
			m.Values[i][j] = v
		}
	}
	return m
}
