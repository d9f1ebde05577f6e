// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/joeycumines/go-eventcascade"
	"github.com/joeycumines/go-eventloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	s, err := Load(`testdata/ready.toml`)
	require.NoError(t, err)

	assert.Equal(t, `ready then settle`, s.Name)
	assert.Equal(t, []string{`page`, `dialog`}, s.Emitters)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, []Emit{{Emitter: `page`, Signal: `ready`, After: 10 * time.Millisecond}}, s.Steps[0].Emit)
	assert.Equal(t, map[string]Expectation{
		`k1`: {Emitter: `page`, Signal: `ready`, Meta: map[string]string{`role`: `content`}},
		`k2`: {Duration: 50 * time.Millisecond},
	}, s.Steps[0].Expect)
	assert.Equal(t, 30*time.Millisecond, s.Steps[1].Expect[`closed`].Guard)
	assert.Nil(t, s.Steps[2].Expect)
}

func TestLoad_invalid(t *testing.T) {
	_, err := Load(`testdata/invalid.toml`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undeclared emitter "missing"`)

	_, err = Load(`testdata/does-not-exist.toml`)
	assert.Error(t, err)
}

func TestParse_errors(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		data string
		want string
	}{
		{`syntax`, `name = `, ``},
		{`unknown key`, "name = \"x\"\ncolour = \"red\"\n[[step]]\n", `unknown keys: colour`},
		{`no steps`, `name = "x"`, `no steps`},
		{`duplicate emitter`, "emitters = [\"a\", \"a\"]\n[[step]]\n", `duplicate emitter "a"`},
		{`emit without signal`, "emitters = [\"a\"]\n[[step]]\n[[step.emit]]\nemitter = \"a\"\n", `missing signal`},
		{`signal and duration`, "emitters = [\"a\"]\n[[step]]\n[step.expect.k]\nemitter = \"a\"\nsignal = \"s\"\nduration = \"1s\"\n", `both signal and duration`},
		{`emitter without signal`, "emitters = [\"a\"]\n[[step]]\n[step.expect.k]\nemitter = \"a\"\n", `emitter without signal`},
		{`empty expectation`, "[[step]]\n[step.expect.k]\nguard = \"1s\"\n", `needs a signal or a positive duration`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func newTestHarness(t *testing.T) *eventcascade.Harness {
	t.Helper()
	loop, err := eventloop.New()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = loop.Shutdown(shutdownCtx)
		cancel()
		<-done
	})
	h, err := eventcascade.New(loop, eventcascade.WithGuardTimeout(time.Second))
	require.NoError(t, err)
	return h
}

func TestRun(t *testing.T) {
	s, err := Load(`testdata/ready.toml`)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reports, err := Run(ctx, newTestHarness(t), s)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, 0, reports[0].Step)
	assert.Equal(t, `load`, reports[0].Name)
	assert.GreaterOrEqual(t, reports[0].Elapsed, 50*time.Millisecond)
	assert.Equal(t, []Result{
		{Key: `k1`, Signal: `ready`, Arrival: 0, Meta: map[string]string{`role`: `content`}},
		{Key: `k2`, Duration: 50 * time.Millisecond, Arrival: -1, TimedOut: true},
	}, reports[0].Results)

	assert.Equal(t, 1, reports[1].Step)
	assert.Equal(t, []Result{
		{Key: `closed`, Signal: `close`, Arrival: -1, TimedOut: true},
		{Key: `opened`, Signal: `open`, Arrival: 0},
	}, reports[1].Results)
}

func TestRun_finalStepExpectations(t *testing.T) {
	s, err := Parse([]byte(`
emitters = ["a"]

[[step]]
name = "only"

[[step.emit]]
emitter = "a"
signal = "go"

[step.expect.go]
emitter = "a"
signal = "go"
`))
	require.NoError(t, err)

	reports, err := Run(context.Background(), newTestHarness(t), s)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, []Result{{Key: `go`, Signal: `go`}}, reports[0].Results)
}

func TestRun_cancelled(t *testing.T) {
	s, err := Parse([]byte("[[step]]\n[step.expect.wait]\nduration = \"1h\"\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Run(ctx, newTestHarness(t), s)
	assert.ErrorIs(t, err, context.Canceled)
}
