// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"fmt"
	"time"
)

// Sequence schedules action i to run at i*interval from now, on the loop
// goroutine. There is no feedback and no cancellation. Nil actions are
// skipped.
func (h *Harness) Sequence(actions []func(), interval time.Duration) error {
	if interval < 0 {
		return fmt.Errorf("eventcascade: negative sequence interval: %s", interval)
	}
	for i, action := range actions {
		if action == nil {
			continue
		}
		if _, err := h.js.SetTimeout(action, durationMillis(time.Duration(i)*interval)); err != nil {
			return fmt.Errorf("eventcascade: failed to schedule sequence action %d: %w", i, err)
		}
	}
	return nil
}
