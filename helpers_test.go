// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

const testWait = 10 * time.Second

// newTestLoop starts a loop, which is shut down on test cleanup.
func newTestLoop(t *testing.T) *eventloop.Loop {
	t.Helper()

	loop, err := eventloop.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), testWait)
		defer shutdownCancel()
		_ = loop.Shutdown(shutdownCtx)
		cancel()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			t.Error("loop did not stop")
		}
	})

	return loop
}

func newTestHarness(t *testing.T, opts ...Option) *Harness {
	t.Helper()
	h, err := New(newTestLoop(t), opts...)
	require.NoError(t, err)
	return h
}

// await blocks until promise settles, failing the test if it rejects.
func await(t *testing.T, promise *eventloop.ChainedPromise) any {
	t.Helper()
	v := awaitSettled(t, promise)
	require.Equal(t, eventloop.Fulfilled, promise.State(), "rejected: %v", v)
	return v
}

func awaitSettled(t *testing.T, promise *eventloop.ChainedPromise) any {
	t.Helper()
	select {
	case v := <-promise.ToChannel():
		return v
	case <-time.After(testWait):
		t.Fatal("timed out waiting for promise")
		return nil
	}
}

// onLoop runs fn on the loop goroutine, and waits for it.
func onLoop(t *testing.T, h *Harness, fn func()) {
	t.Helper()
	done := make(chan struct{})
	require.NoError(t, h.loop.Submit(func() {
		defer close(done)
		fn()
	}))
	select {
	case <-done:
	case <-time.After(testWait):
		t.Fatal("timed out waiting for loop")
	}
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (x *syncBuffer) Write(p []byte) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.Write(p)
}

func (x *syncBuffer) String() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.String()
}

func newTestLogger(w *syncBuffer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(w),
			stumpy.WithTimeField(``),
		),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()
}
