// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"fmt"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-eventloop"
	"github.com/joeycumines/logiface"
)

// Harness runs cascades on an [eventloop.Loop]. The loop must be running, or
// be started, for any cascade to make progress.
//
// A Harness may be shared by concurrent cascades. All of its methods are
// safe to call from any goroutine.
type Harness struct {
	loop               *eventloop.Loop
	js                 *eventloop.JS
	logger             *logiface.Logger[logiface.Event]
	container          Source
	limiter            *catrate.Limiter
	reloads            *Reloads
	navigationSignal   string
	guardTimeout       time.Duration
	signalGuardTimeout time.Duration
}

// New creates a new [Harness] bound to loop.
func New(loop *eventloop.Loop, opts ...Option) (*Harness, error) {
	if loop == nil {
		return nil, ErrNilLoop
	}

	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	js, err := eventloop.NewJS(loop)
	if err != nil {
		return nil, fmt.Errorf("eventcascade: failed to create js adapter: %w", err)
	}

	limiter, err := newWarningLimiter(cfg.warningRates)
	if err != nil {
		return nil, err
	}

	return &Harness{
		loop:               loop,
		js:                 js,
		logger:             cfg.logger,
		container:          cfg.container,
		limiter:            limiter,
		reloads:            new(Reloads),
		navigationSignal:   cfg.navigationSignal,
		guardTimeout:       cfg.guardTimeout,
		signalGuardTimeout: cfg.signalGuardTimeout,
	}, nil
}

// Loop returns the underlying loop.
func (h *Harness) Loop() *eventloop.Loop {
	return h.loop
}

// JS returns the timer and promise adapter used by the harness.
func (h *Harness) JS() *eventloop.JS {
	return h.js
}

// Reloads returns the reload counters owned by this harness.
func (h *Harness) Reloads() *Reloads {
	return h.reloads
}

// NavigationSignal returns the signal waited on by [Harness.PageSequence].
func (h *Harness) NavigationSignal() string {
	return h.navigationSignal
}

// newWarningLimiter converts the catrate panic on invalid rates into an
// error.
func newWarningLimiter(rates map[time.Duration]int) (limiter *catrate.Limiter, err error) {
	if len(rates) == 0 {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			limiter = nil
			err = fmt.Errorf("eventcascade: invalid warning rates: %v", r)
		}
	}()
	return catrate.NewLimiter(rates), nil
}
