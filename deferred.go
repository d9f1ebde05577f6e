// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"fmt"
	"slices"

	"github.com/joeycumines/go-eventloop"
)

type (
	// Deferred is returned by a [DeferredAction], and is either settled, or
	// pending on a promise.
	Deferred struct {
		pending *eventloop.ChainedPromise
	}

	// DeferredAction is an action of [Harness.DeferredSequence].
	DeferredAction func() Deferred

	deferredChain struct {
		h       *Harness
		resolve eventloop.ResolveFunc
		reject  eventloop.RejectFunc
		actions []DeferredAction
		index   int
	}
)

// Settled indicates the action has no outstanding work.
func Settled() Deferred {
	return Deferred{}
}

// Pending indicates the next action must wait for promise to settle. A nil
// promise is equivalent to [Settled].
func Pending(promise *eventloop.ChainedPromise) Deferred {
	return Deferred{pending: promise}
}

// Promise returns the pending promise, or nil if settled.
func (x Deferred) Promise() *eventloop.ChainedPromise {
	return x.pending
}

// DeferredSequence runs each action in order, on the loop goroutine. If an
// action returns a pending [Deferred], the next action runs only after it
// fulfills. A nil action is skipped.
//
// The returned promise resolves once every action has run, and the last
// pending work (if any) has fulfilled. If any pending work rejects, the
// chain stops, and the returned promise rejects with the same reason. An
// empty list resolves immediately.
func (h *Harness) DeferredSequence(actions []DeferredAction) (*eventloop.ChainedPromise, error) {
	promise, resolve, reject := h.js.NewChainedPromise()

	if len(actions) == 0 {
		resolve(nil)
		return promise, nil
	}

	chain := &deferredChain{
		h:       h,
		resolve: resolve,
		reject:  reject,
		actions: slices.Clone(actions),
	}

	if err := h.loop.Submit(chain.next); err != nil {
		return nil, fmt.Errorf("eventcascade: failed to start deferred sequence: %w", err)
	}

	return promise, nil
}

func (x *deferredChain) next() {
	for x.index < len(x.actions) {
		action := x.actions[x.index]
		x.index++
		if action == nil {
			continue
		}
		pending := action().pending
		if pending == nil {
			continue
		}
		pending.Then(x.fulfilled, x.rejected)
		return
	}
	x.resolve(nil)
}

func (x *deferredChain) fulfilled(any) any {
	// resumes on the harness loop, regardless of where the promise settled
	if err := x.h.loop.Submit(x.next); err != nil {
		x.reject(fmt.Errorf("eventcascade: failed to resume deferred sequence: %w", err))
	}
	return nil
}

func (x *deferredChain) rejected(reason any) any {
	x.h.logger.Debug().Log(`deferred sequence rejected`)
	x.reject(reason)
	return nil
}
