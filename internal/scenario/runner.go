// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/joeycumines/go-eventcascade"
	"github.com/joeycumines/go-eventloop"
)

type (
	// Report is the resolved state of one step's expectations.
	Report struct {
		Name    string
		Results []Result
		Step    int
		Elapsed time.Duration
	}

	// Result is the outcome of a single expectation.
	Result struct {
		Meta     map[string]string
		Key      string
		Signal   string
		Duration time.Duration
		Arrival  int
		TimedOut bool
	}
)

// Run executes s, using fresh emitters. The returned reports are ordered by
// step, and exclude steps without expectations. If ctx is cancelled, Run
// stops waiting, but the cascade is left to complete on the loop.
func Run(ctx context.Context, h *eventcascade.Harness, s *Scenario) ([]Report, error) {
	emitters := make(map[string]*eventloop.EventTarget, len(s.Emitters))
	for _, name := range s.Emitters {
		emitters[name] = eventloop.NewEventTarget()
	}

	var (
		start   = time.Now()
		reports []Report
		emitErr error
	)
	report := func(index int, r eventcascade.ResultSet) {
		if index < 0 || s.Steps[index].Expect == nil {
			return
		}
		reports = append(reports, newReport(index, s.Steps[index].Name, r, time.Since(start)))
	}

	steps := make([]eventcascade.Step, len(s.Steps))
	for i, step := range s.Steps {
		steps[i].Action = func(r eventcascade.ResultSet) {
			report(i-1, r)
			for _, emit := range step.Emit {
				target := emitters[emit.Emitter]
				signal := emit.Signal
				if _, err := h.JS().SetTimeout(func() {
					target.DispatchEvent(eventloop.NewEvent(signal))
				}, int(emit.After.Milliseconds())); err != nil && emitErr == nil {
					emitErr = fmt.Errorf("step %d: scheduling emit: %w", i, err)
				}
			}
		}
		if step.Expect != nil || i != len(s.Steps)-1 {
			steps[i].Expect = make(eventcascade.ExpectationSet, len(step.Expect))
		}
		for key, exp := range step.Expect {
			e := eventcascade.Expectation{
				Signal:   exp.Signal,
				Duration: exp.Duration,
				Guard:    exp.Guard,
			}
			if exp.Signal != "" {
				e.Source = eventcascade.StaticSource(emitters[exp.Emitter])
			}
			if len(exp.Meta) != 0 {
				e.Meta = make(map[string]any, len(exp.Meta))
				for k, v := range exp.Meta {
					e.Meta[k] = v
				}
			}
			steps[i].Expect[key] = e
		}
	}

	done, err := h.DetailedEventCascade(steps, eventcascade.ResultSet{})
	if err != nil {
		return nil, err
	}

	var final any
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case final = <-done.ToChannel():
	}
	if done.State() == eventloop.Rejected {
		if err, ok := final.(error); ok {
			return nil, err
		}
		return nil, fmt.Errorf("cascade rejected: %v", final)
	}
	if emitErr != nil {
		return nil, emitErr
	}

	report(len(s.Steps)-1, final.(eventcascade.ResultSet))

	return reports, nil
}

func newReport(index int, name string, r eventcascade.ResultSet, elapsed time.Duration) Report {
	out := Report{
		Name:    name,
		Step:    index,
		Elapsed: elapsed,
	}
	for _, key := range r.Keys() {
		outcome, _ := r.Get(key)
		result := Result{
			Key:      key,
			Signal:   outcome.Signal,
			Duration: outcome.Duration,
			Arrival:  outcome.ArrivalIndex,
			TimedOut: outcome.TimedOut,
		}
		if len(outcome.Meta) != 0 {
			result.Meta = make(map[string]string, len(outcome.Meta))
			for k, v := range outcome.Meta {
				result.Meta[k] = fmt.Sprint(v)
			}
		}
		out.Results = append(out.Results, result)
	}
	return out
}
