// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package rodsource adapts go-rod browser pages to eventcascade emitters,
// where signals are DevTools protocol event methods, e.g.
// "Page.loadEventFired".
package rodsource

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/joeycumines/go-eventcascade"
	"github.com/joeycumines/go-eventloop"
)

// NavigationSignal is fired once a page has loaded.
var NavigationSignal = proto.PageLoadEventFired{}.ProtoEvent()

// Emitter implements [eventcascade.Emitter] on top of a stream of DevTools
// protocol messages. Each listener gets its own subscription, which is
// closed once the listener has been invoked, or removed.
type Emitter struct {
	ctx    context.Context
	events func(ctx context.Context) <-chan *rod.Message
	subs   map[eventloop.ListenerID]context.CancelFunc
	mu     sync.Mutex
	nextID eventloop.ListenerID
}

var _ eventcascade.Emitter = (*Emitter)(nil)

// Page returns an emitter for the events of page. Subscriptions end with the
// page's context.
func Page(page *rod.Page) *Emitter {
	return New(page.GetContext(), func(ctx context.Context) <-chan *rod.Message {
		return page.Context(ctx).Event()
	})
}

// Browser returns an emitter for the events of every page of browser.
func Browser(browser *rod.Browser) *Emitter {
	return New(browser.GetContext(), func(ctx context.Context) <-chan *rod.Message {
		return browser.Context(ctx).Event()
	})
}

// New returns an emitter that subscribes using events, which must stop
// sending, and close the channel, once the provided context is done. The
// subscription must be established before events returns.
func New(ctx context.Context, events func(ctx context.Context) <-chan *rod.Message) *Emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Emitter{
		ctx:    ctx,
		events: events,
		subs:   make(map[eventloop.ListenerID]context.CancelFunc),
	}
}

// AddEventListenerOnce subscribes listener to the first message with the
// method eventType. The listener is invoked from a background goroutine.
func (x *Emitter) AddEventListenerOnce(eventType string, listener eventloop.EventListenerFunc) eventloop.ListenerID {
	if listener == nil {
		return 0
	}

	ctx, cancel := context.WithCancel(x.ctx)

	x.mu.Lock()
	x.nextID++
	id := x.nextID
	x.subs[id] = cancel
	x.mu.Unlock()

	events := x.events(ctx)

	go func() {
		defer x.remove(id)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-events:
				if !ok {
					return
				}
				if msg.Method != eventType {
					continue
				}
				// lost the race with removal
				if !x.remove(id) {
					return
				}
				listener(eventloop.NewEvent(eventType))
				return
			}
		}
	}()

	return id
}

// RemoveEventListenerByID cancels the subscription, returning false if the
// listener was already invoked or removed.
func (x *Emitter) RemoveEventListenerByID(_ string, id eventloop.ListenerID) bool {
	return x.remove(id)
}

// ListenerCount returns the number of active subscriptions.
func (x *Emitter) ListenerCount() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.subs)
}

func (x *Emitter) remove(id eventloop.ListenerID) bool {
	x.mu.Lock()
	cancel, ok := x.subs[id]
	delete(x.subs, id)
	x.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Navigate navigates page to url, and waits for [NavigationSignal], bounded
// by the harness signal guard timeout. The returned promise resolves with
// the [eventcascade.Outcome], or rejects if navigation failed.
func Navigate(h *eventcascade.Harness, page *rod.Page, url string) (*eventloop.ChainedPromise, error) {
	return navigate(h, Page(page), func() error {
		if err := (proto.PageEnable{}).Call(page); err != nil {
			return err
		}
		return page.Navigate(url)
	}, url)
}

func navigate(h *eventcascade.Harness, emitter eventcascade.Emitter, trigger func() error, url string) (*eventloop.ChainedPromise, error) {
	result, resolve, reject := h.JS().NewChainedPromise()

	var navErr error
	waited, err := h.WaitFor(eventcascade.StaticSource(emitter), NavigationSignal, func() {
		navErr = trigger()
	})
	if err != nil {
		return nil, err
	}

	waited.Then(
		func(v any) any {
			if navErr != nil {
				reject(fmt.Errorf("rodsource: navigate to %q: %w", url, navErr))
			} else {
				resolve(v)
			}
			return nil
		},
		func(reason any) any {
			reject(reason)
			return nil
		},
	)

	return result, nil
}
