// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"math/rand"
	"sort"
)

// prefixReadFactor caps how much of the rating log a training run
// ingests. Reading prefixReadFactor*MaxEvents rows keeps huge logs cheap
// while leaving the sampler enough slack to pick active users.
const prefixReadFactor = 3

// MaxReadRows returns how many rating log rows a training run should
// read before sampling.
func (c SamplerConfig) MaxReadRows() int {
	return prefixReadFactor * c.MaxEvents
}

// SampleRatings bounds an event log to the configured working-set size.
// It keeps the MaxUsers most active users (ties broken by ascending user
// ID) and, if their events still exceed MaxEvents, down-samples uniformly
// with the configured seed. Relative log order is preserved throughout,
// so the same input and config always produce the same output.
func SampleRatings(events []RatingEvent, cfg SamplerConfig) []RatingEvent {
	retained := filterTopUsers(events, cfg.MaxUsers)
	if len(retained) <= cfg.MaxEvents {
		return retained
	}
	return downsample(retained, cfg.MaxEvents, cfg.Seed)
}

// filterTopUsers keeps events belonging to the maxUsers most active
// users. Activity is the event count within the (already prefix-capped)
// log, not lifetime activity.
func filterTopUsers(events []RatingEvent, maxUsers int) []RatingEvent {
	counts := make(map[int]int)
	for _, e := range events {
		counts[e.UserID]++
	}
	if len(counts) <= maxUsers {
		out := make([]RatingEvent, len(events))
		copy(out, events)
		return out
	}

	users := make([]int, 0, len(counts))
	for id := range counts {
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool {
		if counts[users[i]] != counts[users[j]] {
			return counts[users[i]] > counts[users[j]]
		}
		return users[i] < users[j]
	})

	keep := make(map[int]struct{}, maxUsers)
	for _, id := range users[:maxUsers] {
		keep[id] = struct{}{}
	}

	out := make([]RatingEvent, 0, len(events))
	for _, e := range events {
		if _, ok := keep[e.UserID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// downsample picks exactly n events uniformly at random with the given
// seed. Selected indices are sorted before extraction so the result keeps
// log order.
func downsample(events []RatingEvent, n int, seed int64) []RatingEvent {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible sampling, not crypto
	idx := rng.Perm(len(events))[:n]
	sort.Ints(idx)

	out := make([]RatingEvent, 0, n)
	for _, i := range idx {
		out = append(out, events[i])
	}
	return out
}
