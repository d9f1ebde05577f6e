// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package scenario loads cascade scenarios from TOML, and runs them against
// in-process emitters.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type (
	// Scenario is a named list of steps, run against a fixed set of named
	// emitters.
	Scenario struct {
		Name     string   `toml:"name"`
		Emitters []string `toml:"emitters"`
		Steps    []Step   `toml:"step"`
	}

	// Step emits signals, then waits for its expectations.
	Step struct {
		Name   string                 `toml:"name"`
		Emit   []Emit                 `toml:"emit"`
		Expect map[string]Expectation `toml:"expect"`
	}

	// Emit dispatches Signal on Emitter, After the step's action runs.
	Emit struct {
		Emitter string        `toml:"emitter"`
		Signal  string        `toml:"signal"`
		After   time.Duration `toml:"after"`
	}

	// Expectation is either a signal on an emitter, or a pure timeout.
	Expectation struct {
		Meta     map[string]string `toml:"meta"`
		Emitter  string            `toml:"emitter"`
		Signal   string            `toml:"signal"`
		Duration time.Duration     `toml:"duration"`
		Guard    time.Duration     `toml:"guard"`
	}
)

// Load reads and validates the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every emitter reference is declared, and that every
// expectation is either a signal or a pure timeout.
func (s *Scenario) Validate() error {
	var errs []error
	if len(s.Steps) == 0 {
		errs = append(errs, errors.New("no steps"))
	}
	declared := make(map[string]struct{}, len(s.Emitters))
	for _, name := range s.Emitters {
		if name == "" {
			errs = append(errs, errors.New("empty emitter name"))
			continue
		}
		if _, ok := declared[name]; ok {
			errs = append(errs, fmt.Errorf("duplicate emitter %q", name))
		}
		declared[name] = struct{}{}
	}
	checkEmitter := func(step int, what, name string) {
		if _, ok := declared[name]; !ok {
			errs = append(errs, fmt.Errorf("step %d: %s: undeclared emitter %q", step, what, name))
		}
	}
	for i, step := range s.Steps {
		for j, emit := range step.Emit {
			what := fmt.Sprintf("emit %d", j)
			checkEmitter(i, what, emit.Emitter)
			if emit.Signal == "" {
				errs = append(errs, fmt.Errorf("step %d: %s: missing signal", i, what))
			}
			if emit.After < 0 {
				errs = append(errs, fmt.Errorf("step %d: %s: negative delay", i, what))
			}
		}
		for _, key := range sortedKeys(step.Expect) {
			exp := step.Expect[key]
			what := fmt.Sprintf("expect %q", key)
			switch {
			case exp.Signal != "" && exp.Duration != 0:
				errs = append(errs, fmt.Errorf("step %d: %s: both signal and duration", i, what))
			case exp.Signal != "":
				checkEmitter(i, what, exp.Emitter)
			case exp.Emitter != "":
				errs = append(errs, fmt.Errorf("step %d: %s: emitter without signal", i, what))
			case exp.Duration <= 0:
				errs = append(errs, fmt.Errorf("step %d: %s: needs a signal or a positive duration", i, what))
			}
			if exp.Guard < 0 {
				errs = append(errs, fmt.Errorf("step %d: %s: negative guard", i, what))
			}
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
