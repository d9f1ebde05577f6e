// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"github.com/joeycumines/go-eventloop"
)

// SignalKey is the [ResultSet] key used by the single-signal form, and by
// [Harness.WaitFor].
const SignalKey = `signal`

// SignalStep is a step of the single-signal form. Action receives whether
// the previous step's signal timed out (false for the first step), and
// Signal is waited for on the harness container, after Action returns.
type SignalStep struct {
	Action func(timedOut bool)

	// Signal may only be empty for the last step.
	Signal string
}

// EventCascade runs the single-signal form, where each step waits for at
// most one signal, bounded by the signal guard timeout, see
// [WithSignalGuardTimeout]. It requires a container, see [WithContainer].
//
// The returned promise behaves as per [Harness.DetailedEventCascade], with
// results keyed by [SignalKey].
func (h *Harness) EventCascade(steps []SignalStep) (*eventloop.ChainedPromise, error) {
	detailed := make([]Step, len(steps))
	for i, step := range steps {
		if action := step.Action; action != nil {
			detailed[i].Action = func(r ResultSet) {
				outcome, _ := r.Get(SignalKey)
				action(outcome.TimedOut)
			}
		}
		if step.Signal != "" {
			detailed[i].Expect = ExpectationSet{SignalKey: {
				Signal: step.Signal,
				Guard:  h.signalGuardTimeout,
			}}
		}
	}
	return h.DetailedEventCascade(detailed, ResultSet{})
}

// EventSequence runs each action in turn, waiting for signal between each.
func (h *Harness) EventSequence(signal string, actions []func(timedOut bool)) (*eventloop.ChainedPromise, error) {
	steps := make([]SignalStep, len(actions))
	for i, action := range actions {
		steps[i].Action = action
		if i != len(actions)-1 {
			steps[i].Signal = signal
		}
	}
	return h.EventCascade(steps)
}

// PageSequence is [Harness.EventSequence] using the navigation signal, see
// [WithNavigationSignal].
func (h *Harness) PageSequence(actions []func(timedOut bool)) (*eventloop.ChainedPromise, error) {
	return h.EventSequence(h.navigationSignal, actions)
}

// WaitFor arms a single signal expectation on the emitter resolved by
// source, or the container if source is nil, then calls trigger. The
// returned promise resolves with the [Outcome], once the signal arrives or
// the signal guard timeout expires.
func (h *Harness) WaitFor(source Source, signal string, trigger func()) (*eventloop.ChainedPromise, error) {
	if trigger == nil {
		trigger = func() {}
	}
	done, err := h.DetailedEventCascade([]Step{
		{
			Action: func(ResultSet) { trigger() },
			Expect: ExpectationSet{SignalKey: {
				Source: source,
				Signal: signal,
				Guard:  h.signalGuardTimeout,
			}},
		},
	}, ResultSet{})
	if err != nil {
		return nil, err
	}
	return done.Then(func(v any) any {
		outcome, _ := v.(ResultSet).Get(SignalKey)
		return outcome
	}, nil), nil
}
