// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/go-eventloop"
)

type (
	// Step is one stage of a cascade. The action is invoked with the
	// [ResultSet] of the previous step, then the cascade waits for every
	// expectation to resolve.
	Step struct {
		// Action is invoked on the loop goroutine. A nil Action ends the
		// cascade, before any of its expectations are armed.
		Action func(ResultSet)

		// Expect may only be nil for the last step. An empty, non-nil set
		// resolves immediately, with an empty [ResultSet].
		Expect ExpectationSet
	}

	// ExpectationSet maps caller-chosen keys to expectations.
	ExpectationSet map[string]Expectation

	// Expectation is either event-based (Signal set), or a pure timeout
	// (only Duration set).
	Expectation struct {
		// Source resolves the emitter for event-based expectations. If nil,
		// the harness container is used, see [WithContainer].
		Source Source

		// Meta is copied into the [Outcome].
		Meta map[string]any

		// Signal is the event type to wait for.
		Signal string

		// Duration makes this a pure timeout, which always reports timed out.
		Duration time.Duration

		// Guard overrides the harness guard timeout for this expectation.
		Guard time.Duration
	}

	// cascadeRun is the state of one cascade, only accessed on the loop
	// goroutine.
	cascadeRun struct {
		h       *Harness
		resolve eventloop.ResolveFunc
		reject  eventloop.RejectFunc
		id      string
		steps   []Step
		result  ResultSet
		index   int
		done    bool
	}

	// stepState accumulates the resolutions of one step.
	stepState struct {
		expect      ExpectationSet
		resolutions map[string]resolution
	}
)

// DetailedEventCascade runs steps in order, starting with initial as the
// input to the first action. Each step's expectations are armed, then its
// action is invoked, then once every expectation has resolved, the loop is
// yielded to once, before the next step.
//
// The returned promise resolves with the most recent [ResultSet]: the one
// passed to the last action invoked, or that of the final step, if it has
// expectations. It rejects only if the cascade could not be continued, e.g.
// because a source resolved to a nil emitter, or the loop was terminated.
//
// Malformed steps are reported synchronously, see [ExpectationError] and
// [ErrMissingExpectations].
func (h *Harness) DetailedEventCascade(steps []Step, initial ResultSet) (*eventloop.ChainedPromise, error) {
	if err := h.validateSteps(steps); err != nil {
		return nil, err
	}

	promise, resolve, reject := h.js.NewChainedPromise()

	run := &cascadeRun{
		h:       h,
		resolve: resolve,
		reject:  reject,
		id:      uuid.NewString(),
		steps:   slices.Clone(steps),
		result:  initial,
	}

	h.logger.Debug().
		Str(`cascade`, run.id).
		Int(`steps`, len(steps)).
		Log(`cascade started`)

	if err := h.loop.Submit(run.next); err != nil {
		return nil, fmt.Errorf("eventcascade: failed to start cascade: %w", err)
	}

	return promise, nil
}

func (h *Harness) validateSteps(steps []Step) error {
	for i, step := range steps {
		if step.Action == nil {
			// nothing after this step is reachable
			return nil
		}
		if step.Expect == nil {
			if i != len(steps)-1 {
				return fmt.Errorf("%w: step %d", ErrMissingExpectations, i)
			}
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(step.Expect)) {
			if err := h.validateExpectation(i, key, step.Expect[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Harness) validateExpectation(step int, key string, exp Expectation) error {
	newErr := func(reason string, cause error) error {
		return &ExpectationError{Cause: cause, Key: key, Reason: reason, Step: step}
	}
	switch {
	case exp.Duration < 0:
		return newErr(`negative duration`, nil)
	case exp.Guard < 0:
		return newErr(`negative guard`, nil)
	case exp.Signal == "" && exp.Source != nil:
		return newErr(`source without signal`, nil)
	case exp.Signal == "" && exp.Duration == 0:
		return newErr(`no signal and no duration`, nil)
	case exp.Signal != "" && exp.Duration != 0:
		return newErr(`both signal and duration`, nil)
	case exp.Signal != "" && exp.Source == nil && h.container == nil:
		return newErr(``, ErrNoContainer)
	}
	return nil
}

// next runs the step at the cursor.
func (x *cascadeRun) next() {
	if x.done {
		return
	}
	if x.index >= len(x.steps) {
		x.finish()
		return
	}

	index := x.index
	step := x.steps[index]
	x.index++

	if step.Action == nil {
		x.finish()
		return
	}

	var state *stepState
	if step.Expect != nil {
		state = &stepState{
			expect:      step.Expect,
			resolutions: make(map[string]resolution, len(step.Expect)),
		}
		if err := x.arm(index, state); err != nil {
			x.fail(err)
			return
		}
		x.h.debugStep(x.id, index, `step armed`)
	}

	step.Action(x.result)

	if state == nil {
		x.finish()
		return
	}

	if len(state.resolutions) == len(state.expect) {
		x.complete(index, state)
	}
}

// arm arms every expectation of the step, retiring those already armed on
// failure.
func (x *cascadeRun) arm(index int, state *stepState) (err error) {
	var armed []*waiter
	defer func() {
		if err != nil {
			for _, w := range armed {
				w.retire()
			}
		}
	}()
	for _, key := range slices.Sorted(maps.Keys(state.expect)) {
		exp := state.expect[key]
		w := &waiter{
			h:        x.h,
			settle:   x.settler(index, state, key),
			run:      x.id,
			key:      key,
			signal:   exp.Signal,
			duration: exp.Duration,
			guard:    exp.Guard,
		}
		if exp.Signal != "" {
			source := exp.Source
			if source == nil {
				source = x.h.container
			}
			emitter, err := resolveEmitter(source)
			if err != nil {
				return fmt.Errorf("eventcascade: step %d key %q: %w", index, key, err)
			}
			w.emitter = emitter
			if w.guard == 0 {
				w.guard = x.h.guardTimeout
			}
		}
		if err := w.arm(); err != nil {
			return fmt.Errorf("eventcascade: step %d key %q: failed to arm: %w", index, key, err)
		}
		armed = append(armed, w)
	}
	return nil
}

func (x *cascadeRun) settler(index int, state *stepState, key string) func(timedOut bool) {
	return func(timedOut bool) {
		if x.done {
			return
		}
		if _, ok := state.resolutions[key]; ok {
			return
		}
		// the index counts every resolution, timeouts included
		state.resolutions[key] = resolution{
			arrivalIndex: len(state.resolutions),
			timedOut:     timedOut,
		}
		if len(state.resolutions) == len(state.expect) {
			x.complete(index, state)
		}
	}
}

// complete aggregates the step, then yields to the loop before the next.
func (x *cascadeRun) complete(index int, state *stepState) {
	x.result = aggregate(state.expect, state.resolutions)
	x.h.debugStep(x.id, index, `step resolved`)
	if x.index >= len(x.steps) {
		x.finish()
		return
	}
	if err := x.h.loop.Submit(x.next); err != nil {
		x.fail(fmt.Errorf("eventcascade: failed to schedule step %d: %w", x.index, err))
	}
}

func (x *cascadeRun) finish() {
	x.done = true
	x.h.logger.Debug().
		Str(`cascade`, x.id).
		Log(`cascade done`)
	x.resolve(x.result)
}

func (x *cascadeRun) fail(err error) {
	x.done = true
	x.h.logger.Err().
		Err(err).
		Str(`cascade`, x.id).
		Log(`cascade failed`)
	x.reject(err)
}
