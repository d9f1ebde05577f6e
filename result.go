// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"maps"
	"slices"
	"time"
)

type (
	// Outcome is the resolution of a single [Expectation], merged with the
	// expectation's metadata.
	Outcome struct {
		// Meta is a copy of [Expectation.Meta].
		Meta map[string]any

		// Signal is the expected signal, if any.
		Signal string

		// Duration is the pure timeout, if any.
		Duration time.Duration

		// ArrivalIndex is the zero-based order in which this expectation
		// resolved, counting every expectation of the same step (timeouts
		// included), or -1 if it timed out.
		ArrivalIndex int

		// TimedOut is true if the guard expired, or for pure timeouts.
		TimedOut bool
	}

	// ResultSet maps every key of an [ExpectationSet] to its [Outcome]. It is
	// immutable, and the zero value is an empty set.
	ResultSet struct {
		outcomes map[string]Outcome
	}

	// resolution is what a waiter reports.
	resolution struct {
		arrivalIndex int
		timedOut     bool
	}
)

// Get returns the outcome for key. The returned Meta is a copy.
func (x ResultSet) Get(key string) (Outcome, bool) {
	v, ok := x.outcomes[key]
	if ok {
		v.Meta = maps.Clone(v.Meta)
	}
	return v, ok
}

// Len returns the number of outcomes.
func (x ResultSet) Len() int {
	return len(x.outcomes)
}

// Keys returns all keys, sorted.
func (x ResultSet) Keys() []string {
	return slices.Sorted(maps.Keys(x.outcomes))
}

// Arrivals returns the keys that fired, ordered by arrival.
func (x ResultSet) Arrivals() []string {
	keys := make([]string, 0, len(x.outcomes))
	for k, v := range x.outcomes {
		if !v.TimedOut {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		return x.outcomes[a].ArrivalIndex - x.outcomes[b].ArrivalIndex
	})
	return keys
}

// TimedOut returns the keys that timed out, sorted.
func (x ResultSet) TimedOut() []string {
	var keys []string
	for k, v := range x.outcomes {
		if v.TimedOut {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// aggregate merges each expectation with its resolution. Every key of expect
// must be present in resolutions.
func aggregate(expect ExpectationSet, resolutions map[string]resolution) ResultSet {
	outcomes := make(map[string]Outcome, len(expect))
	for key, exp := range expect {
		res := resolutions[key]
		outcome := Outcome{
			Meta:         maps.Clone(exp.Meta),
			Signal:       exp.Signal,
			Duration:     exp.Duration,
			ArrivalIndex: res.arrivalIndex,
			TimedOut:     res.timedOut,
		}
		if outcome.TimedOut {
			outcome.ArrivalIndex = -1
		}
		outcomes[key] = outcome
	}
	return ResultSet{outcomes: outcomes}
}
