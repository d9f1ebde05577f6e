// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"github.com/joeycumines/go-eventloop"
)

type (
	// Emitter is something that signals may be subscribed to, once.
	//
	// Listeners may be invoked from any goroutine. Implementations must
	// invoke a listener at most once, and must not invoke it after a
	// successful RemoveEventListenerByID.
	Emitter interface {
		AddEventListenerOnce(eventType string, listener eventloop.EventListenerFunc) eventloop.ListenerID
		RemoveEventListenerByID(eventType string, id eventloop.ListenerID) bool
	}

	// Source resolves the [Emitter] an expectation subscribes to. It is
	// resolved at arming time, i.e. after the previous step's action ran,
	// and never cached.
	Source interface {
		Resolve() Emitter
	}

	// SourceFunc adapts a function to a [Source].
	SourceFunc func() Emitter

	staticSource struct {
		emitter Emitter
	}
)

var (
	_ Emitter = (*eventloop.EventTarget)(nil)
	_ Source  = SourceFunc(nil)
	_ Source  = staticSource{}
)

// Resolve calls x.
func (x SourceFunc) Resolve() Emitter {
	return x()
}

// StaticSource returns a [Source] that always resolves to emitter.
func StaticSource(emitter Emitter) Source {
	return staticSource{emitter: emitter}
}

func (x staticSource) Resolve() Emitter {
	return x.emitter
}

func resolveEmitter(source Source) (Emitter, error) {
	emitter := source.Resolve()
	if emitter == nil {
		return nil, ErrNilEmitter
	}
	return emitter, nil
}
