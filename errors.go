// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"errors"
	"strconv"
)

var (
	// ErrNilLoop is returned by [New] when no loop is provided.
	ErrNilLoop = errors.New("eventcascade: loop cannot be nil")

	// ErrNilEmitter rejects a cascade when a [Source] resolves to a nil
	// [Emitter] at subscription time.
	ErrNilEmitter = errors.New("eventcascade: source resolved to a nil emitter")

	// ErrNoContainer indicates an event expectation had no [Source], and the
	// harness has no container configured, see [WithContainer].
	ErrNoContainer = errors.New("eventcascade: no source and no container configured")

	// ErrMalformedExpectation is wrapped by [ExpectationError].
	ErrMalformedExpectation = errors.New("eventcascade: malformed expectation")

	// ErrMissingExpectations indicates a step other than the last had no
	// expectation set.
	ErrMissingExpectations = errors.New("eventcascade: missing expectations")
)

// ExpectationError describes a malformed [Expectation], identified by its
// step index and key.
type ExpectationError struct {
	// Cause is an optional underlying error, e.g. [ErrNoContainer].
	Cause  error
	Key    string
	Reason string
	Step   int
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	msg := ErrMalformedExpectation.Error() + `: step ` + strconv.Itoa(e.Step) + ` key ` + strconv.Quote(e.Key)
	if e.Reason != "" {
		msg += `: ` + e.Reason
	}
	if e.Cause != nil {
		msg += `: ` + e.Cause.Error()
	}
	return msg
}

// Unwrap supports [errors.Is] against [ErrMalformedExpectation] as well as
// the cause, if any.
func (e *ExpectationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMalformedExpectation}
	}
	return []error{ErrMalformedExpectation, e.Cause}
}
