// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarness_Sequence(t *testing.T) {
	h := newTestHarness(t)

	const interval = 40 * time.Millisecond
	start := time.Now()
	var (
		wg      sync.WaitGroup
		offsets = make([]time.Duration, 3)
	)
	wg.Add(len(offsets))
	record := func(i int) func() {
		return func() {
			defer wg.Done()
			offsets[i] = time.Since(start)
		}
	}

	require.NoError(t, h.Sequence([]func(){record(0), nil, record(1), record(2)}, interval))
	wg.Wait()

	assert.Less(t, offsets[0], interval)
	assert.GreaterOrEqual(t, offsets[1], 2*interval)
	assert.GreaterOrEqual(t, offsets[2], 3*interval)
	assert.Less(t, offsets[1], offsets[2])
}

func TestHarness_Sequence_negativeInterval(t *testing.T) {
	h := newTestHarness(t)
	assert.Error(t, h.Sequence([]func(){func() {}}, -time.Second))
}
