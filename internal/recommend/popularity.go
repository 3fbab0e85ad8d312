// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "sort"

// BuildPopularity scores every matrix movie with a Bayesian weighted
// rating:
//
//	score = (v/(v+m))*R + (m/(v+m))*C
//
// where v is the movie's rating count, R its mean rating, m the 60th
// percentile of rating counts and C the mean rating across rated movies.
// The weighting pulls sparsely rated movies toward the global mean, so a
// single 5-star rating does not outrank a well-established 4.2. Entries
// are emitted in matrix column order.
func BuildPopularity(m *InteractionMatrix) *PopularityIndex {
	n := m.Movies()
	p := &PopularityIndex{
		Entries: make([]PopularityEntry, 0, n),
		Index:   make(map[int]int, n),
	}
	if n == 0 {
		return p
	}

	avgs := make([]float64, n)
	counts := make([]int, n)
	for j := 0; j < n; j++ {
		var sum float64
		var count int
		for i := range m.Values {
			if v := m.Values[i][j]; v > 0 {
				sum += v
				count++
			}
		}
		counts[j] = count
		if count > 0 {
			avgs[j] = sum / float64(count)
		}
	}

	// The prior strength and global mean come from rated movies only;
	// a movie whose column emptied out during user filtering scores C.
	var rated []int
	var avgSum float64
	for j := 0; j < n; j++ {
		if counts[j] > 0 {
			rated = append(rated, counts[j])
			avgSum += avgs[j]
		}
	}
	var c, prior float64
	if len(rated) > 0 {
		c = avgSum / float64(len(rated))
		prior = percentile(rated, 0.6)
	}

	for j := 0; j < n; j++ {
		v := float64(counts[j])
		score := c
		if v+prior > 0 {
			score = (v/(v+prior))*avgs[j] + (prior/(v+prior))*c
		}
		p.Index[m.MovieIDs[j]] = len(p.Entries)
		p.Entries = append(p.Entries, PopularityEntry{
			MovieID:    m.MovieIDs[j],
			AvgRating:  avgs[j],
			NumRatings: counts[j],
			Score:      score,
		})
	}
	return p
}

// percentile returns the q-th quantile of values using linear
// interpolation between order statistics (rank = q*(n-1)).
func percentile(values []int, q float64) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	rank := q * float64(len(sorted)-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
