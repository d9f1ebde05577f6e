// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"time"
)

// warnGuardExpired logs that an expected signal never arrived, subject to
// the per-signal rate limit.
func (h *Harness) warnGuardExpired(run, key, signal string, guard time.Duration) {
	b := h.logger.Warning()
	if !b.Enabled() {
		return
	}
	if _, ok := h.limiter.Allow(signal); !ok {
		b.Release()
		return
	}
	b.Str(`cascade`, run).
		Str(`key`, key).
		Str(`signal`, signal).
		Str(`guard`, guard.String()).
		Log(`signal not received before guard expired`)
}

func (h *Harness) debugStep(run string, step int, msg string) {
	h.logger.Debug().
		Str(`cascade`, run).
		Int(`step`, step).
		Log(msg)
}
