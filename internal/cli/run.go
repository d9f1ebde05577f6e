// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeycumines/go-eventcascade"
	"github.com/joeycumines/go-eventcascade/internal/scenario"
	"github.com/joeycumines/go-eventloop"
	"github.com/spf13/cobra"
)

type runOptions struct {
	logLevel    string
	guard       time.Duration
	signalGuard time.Duration
	timeout     time.Duration
}

func newRunCmd(cfg Config) *cobra.Command {
	opts := runOptions{
		logLevel:    cfg.LogLevel,
		guard:       cfg.Guard,
		signalGuard: cfg.SignalGuard,
		timeout:     cfg.Timeout,
	}
	cmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Run scenario files, writing one JSON line per step",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, opts, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level, e.g. debug, info, warning")
	flags.DurationVar(&opts.guard, "guard", opts.guard, "default guard timeout for signal expectations")
	flags.DurationVar(&opts.signalGuard, "signal-guard", opts.signalGuard, "guard timeout for single signal waits")
	flags.DurationVar(&opts.timeout, "timeout", opts.timeout, "overall timeout per scenario")
	return cmd
}

func runScenarios(cmd *cobra.Command, opts runOptions, paths []string) error {
	level, err := parseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	scenarios := make([]*scenario.Scenario, len(paths))
	for i, path := range paths {
		if scenarios[i], err = scenario.Load(path); err != nil {
			return err
		}
	}

	loop, err := eventloop.New()
	if err != nil {
		return fmt.Errorf("creating loop: %w", err)
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer shutdownCancel()
		if err := loop.Shutdown(shutdownCtx); err != nil {
			logger.Warning().Err(err).Log(`loop shutdown failed`)
		}
		cancel()
		if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug().Err(err).Log(`loop stopped`)
		}
	}()

	h, err := eventcascade.New(loop,
		eventcascade.WithLogger(logger),
		eventcascade.WithGuardTimeout(opts.guard),
		eventcascade.WithSignalGuardTimeout(opts.signalGuard),
	)
	if err != nil {
		return err
	}

	var buf []byte
	for i, s := range scenarios {
		name := s.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(paths[i]), filepath.Ext(paths[i]))
		}

		logger.Info().Str(`scenario`, name).Log(`running scenario`)

		runCtx, runCancel := context.WithTimeout(ctx, opts.timeout)
		reports, err := scenario.Run(runCtx, h, s)
		runCancel()
		if err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}

		for _, r := range reports {
			buf = appendReport(buf[:0], name, r)
			if _, err := cmd.OutOrStdout().Write(buf); err != nil {
				return err
			}
		}
	}

	return nil
}
