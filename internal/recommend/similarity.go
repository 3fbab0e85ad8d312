// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "math"

// BuildSimilarity computes the movie-movie cosine similarity matrix over
// the interaction matrix columns. A movie whose column is all zeros has
// similarity 0 with every movie, itself included; the diagonal is 1 for
// all other movies. Results are symmetric and never NaN.
func BuildSimilarity(m *InteractionMatrix) *SimilarityModel {
	n := m.Movies()

	norms := make([]float64, n)
	for j := 0; j < n; j++ {
		var sum float64
		for i := range m.Values {
			v := m.Values[i][j]
			sum += v * v
		}
		norms[j] = math.Sqrt(sum)
	}

	values := make([][]float64, n)
	for j := range values {
		values[j] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		if norms[a] == 0 {
			continue
		}
		values[a][a] = 1
		for b := a + 1; b < n; b++ {
			if norms[b] == 0 {
				continue
			}
			var dot float64
			for i := range m.Values {
				dot += m.Values[i][a] * m.Values[i][b]
			}
			sim := dot / (norms[a] * norms[b])
			values[a][b] = sim
			values[b][a] = sim
		}
	}

	movieIDs := make([]int, n)
	copy(movieIDs, m.MovieIDs)
	index := make(map[int]int, n)
	for j, id := range movieIDs {
		index[id] = j
	}

	return &SimilarityModel{
		Values:   values,
		MovieIDs: movieIDs,
		Index:    index,
	}
}
