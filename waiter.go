// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-eventloop"
)

// waiter resolves a single expectation exactly once. It is armed on the loop
// goroutine, and settle is only ever called on the loop goroutine.
//
// For event expectations, the signal and the guard race on settled. The
// winner retires the loser, i.e. clears the guard timer, or removes the
// listener.
type waiter struct {
	h        *Harness
	emitter  Emitter
	settle   func(timedOut bool)
	run      string
	key      string
	signal   string
	duration time.Duration
	guard    time.Duration
	listener eventloop.ListenerID
	timer    uint64
	settled  atomic.Bool
}

// arm subscribes and schedules timers. On error, nothing will be reported.
func (w *waiter) arm() error {
	if w.emitter == nil {
		timer, err := w.h.js.SetTimeout(w.elapsed, durationMillis(w.duration))
		if err != nil {
			return err
		}
		w.timer = timer
		return nil
	}

	w.listener = w.emitter.AddEventListenerOnce(w.signal, w.onSignal)

	timer, err := w.h.js.SetTimeout(w.onGuard, durationMillis(w.guard))
	if err != nil {
		w.settled.Store(true)
		w.emitter.RemoveEventListenerByID(w.signal, w.listener)
		return err
	}
	w.timer = timer

	return nil
}

// onSignal may be called from any goroutine.
func (w *waiter) onSignal(*eventloop.Event) {
	if !w.settled.CompareAndSwap(false, true) {
		return
	}
	if err := w.h.loop.Submit(w.fired); err != nil {
		w.h.logger.Err().
			Err(err).
			Str(`cascade`, w.run).
			Str(`key`, w.key).
			Str(`signal`, w.signal).
			Log(`failed to submit signal`)
	}
}

func (w *waiter) fired() {
	w.clearTimer()
	w.settle(false)
}

func (w *waiter) onGuard() {
	if !w.settled.CompareAndSwap(false, true) {
		return
	}
	w.emitter.RemoveEventListenerByID(w.signal, w.listener)
	w.h.warnGuardExpired(w.run, w.key, w.signal, w.guard)
	w.settle(true)
}

// elapsed reports a pure timeout.
func (w *waiter) elapsed() {
	if !w.settled.CompareAndSwap(false, true) {
		return
	}
	w.settle(true)
}

// retire stops an armed waiter that has not settled, without reporting.
func (w *waiter) retire() {
	if !w.settled.CompareAndSwap(false, true) {
		return
	}
	if w.emitter != nil {
		w.emitter.RemoveEventListenerByID(w.signal, w.listener)
	}
	w.clearTimer()
}

// clearTimer cancels the timer off the loop goroutine, as ClearTimeout
// waits on the loop. Once settled, a late timer callback is a no-op.
func (w *waiter) clearTimer() {
	if w.timer == 0 {
		return
	}
	timer := w.timer
	go func() { _ = w.h.js.ClearTimeout(timer) }()
}

// durationMillis rounds up, so that a timer never fires early.
func durationMillis(d time.Duration) int {
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	return int(ms)
}
