// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package eventcascade schedules asynchronous test steps on a
// [github.com/joeycumines/go-eventloop] loop.
//
// A cascade is a list of steps. Each step invokes an action, then waits for
// a set of named expectations to resolve, either by a signal arriving on an
// [Emitter], or by a timeout. Once every expectation of a step has resolved,
// the merged [ResultSet] is passed to the next step's action, after yielding
// to the loop once.
//
// The package provides:
//
//   - [Harness.DetailedEventCascade], the keyed multi-expectation form.
//   - [Harness.EventCascade], [Harness.EventSequence] and
//     [Harness.PageSequence], the single-signal form, which hands each action
//     a timed-out flag.
//   - [Harness.DeferredSequence], which runs actions in order, waiting on any
//     promise an action returns before moving on.
//   - [Harness.Sequence], which runs actions at a fixed interval.
//   - [Harness.WaitFor], which waits for one signal after running a trigger.
//
// Timeouts are reported as data ([Outcome.TimedOut]), never as errors. All
// bookkeeping happens on the loop goroutine. Emitters may invoke listeners
// from any goroutine; settlement is always moved onto the loop.
//
// # Usage
//
//	loop, _ := eventloop.New()
//	go loop.Run(ctx)
//
//	h, _ := eventcascade.New(loop, eventcascade.WithGuardTimeout(time.Second))
//	target := eventloop.NewEventTarget()
//
//	done, _ := h.DetailedEventCascade([]eventcascade.Step{
//		{
//			Action: func(eventcascade.ResultSet) { startThing(target) },
//			Expect: eventcascade.ExpectationSet{
//				"ready": {Source: eventcascade.StaticSource(target), Signal: "ready"},
//				"settle": {Duration: 50 * time.Millisecond},
//			},
//		},
//		{
//			Action: func(r eventcascade.ResultSet) {
//				ready, _ := r.Get("ready")
//				fmt.Println(ready.TimedOut)
//			},
//		},
//	}, eventcascade.ResultSet{})
//	<-done.ToChannel()
package eventcascade
