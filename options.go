// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

import (
	"errors"
	"time"

	"github.com/joeycumines/logiface"
)

const (
	// DefaultGuardTimeout bounds each event expectation of a detailed
	// cascade, unless overridden by [WithGuardTimeout] or [Expectation.Guard].
	DefaultGuardTimeout = 20 * time.Second

	// DefaultSignalGuardTimeout bounds each step of the single-signal form,
	// see [Harness.EventCascade].
	DefaultSignalGuardTimeout = 2 * time.Second

	// DefaultNavigationSignal is the signal used by [Harness.PageSequence].
	DefaultNavigationSignal = `pagechange`
)

// DefaultWarningRates limits guard expiry warnings, per signal.
var DefaultWarningRates = map[time.Duration]int{
	time.Second: 10,
	time.Minute: 100,
}

// harnessOptions holds configuration for [New].
type harnessOptions struct {
	logger             *logiface.Logger[logiface.Event]
	container          Source
	warningRates       map[time.Duration]int
	navigationSignal   string
	guardTimeout       time.Duration
	signalGuardTimeout time.Duration
}

// Option configures a [Harness].
type Option interface {
	applyHarness(*harnessOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyHarnessFunc func(*harnessOptions) error
}

func (o *optionImpl) applyHarness(opts *harnessOptions) error {
	return o.applyHarnessFunc(opts)
}

// WithLogger configures structured logging. A nil logger disables logging,
// which is the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithGuardTimeout sets the default guard bound for event expectations of
// detailed cascades. Defaults to [DefaultGuardTimeout].
func WithGuardTimeout(d time.Duration) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		if d <= 0 {
			return errors.New("eventcascade: guard timeout must be positive")
		}
		opts.guardTimeout = d
		return nil
	}}
}

// WithSignalGuardTimeout sets the guard bound used by the single-signal
// form. Defaults to [DefaultSignalGuardTimeout].
func WithSignalGuardTimeout(d time.Duration) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		if d <= 0 {
			return errors.New("eventcascade: signal guard timeout must be positive")
		}
		opts.signalGuardTimeout = d
		return nil
	}}
}

// WithContainer sets the source used by event expectations that have no
// [Expectation.Source], and by the single-signal form.
func WithContainer(source Source) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		opts.container = source
		return nil
	}}
}

// WithNavigationSignal sets the signal [Harness.PageSequence] waits for.
// Defaults to [DefaultNavigationSignal].
func WithNavigationSignal(signal string) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		if signal == "" {
			return errors.New("eventcascade: navigation signal cannot be empty")
		}
		opts.navigationSignal = signal
		return nil
	}}
}

// WithWarningRates configures the per-signal rate limit applied to guard
// expiry warnings, in the format accepted by go-catrate. A nil map disables
// rate limiting.
func WithWarningRates(rates map[time.Duration]int) Option {
	return &optionImpl{func(opts *harnessOptions) error {
		opts.warningRates = rates
		return nil
	}}
}

// resolveOptions applies Option instances to harnessOptions.
func resolveOptions(opts []Option) (*harnessOptions, error) {
	cfg := &harnessOptions{
		warningRates:       DefaultWarningRates,
		navigationSignal:   DefaultNavigationSignal,
		guardTimeout:       DefaultGuardTimeout,
		signalGuardTimeout: DefaultSignalGuardTimeout,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyHarness(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
