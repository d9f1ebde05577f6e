// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"strconv"
	"strings"
	"sync"
)

// Reloads counts reloads of named resources, and derives cache busting
// URLs from the counts. The zero value is ready to use.
type Reloads struct {
	counts map[string]int
	mu     sync.Mutex
}

// Next increments and returns the count for name.
func (x *Reloads) Next(name string) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.counts == nil {
		x.counts = make(map[string]int)
	}
	x.counts[name]++
	return x.counts[name]
}

// Count returns the current count for name, without modifying it.
func (x *Reloads) Count(name string) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.counts[name]
}

// CacheBust increments the count for name, and appends it to src as a query
// value, e.g. "lib.js" becomes "lib.js?1".
func (x *Reloads) CacheBust(name, src string) string {
	sep := `?`
	if strings.Contains(src, `?`) {
		sep = `&`
	}
	return src + sep + strconv.Itoa(x.Next(name))
}

// Reset clears all counts.
func (x *Reloads) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	clear(x.counts)
}
