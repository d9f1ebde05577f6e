// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package cli implements the cascadeplay command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Execute runs the root command against the process arguments, returning
// the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	cmd := newRootCmd(cfg, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(cfg Config, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cascadeplay",
		Short: "Run event cascade scenarios",
		Long: `Run event cascade scenarios described in TOML.

A scenario declares named emitters, and a list of steps. Each step emits
signals (optionally delayed), then waits for its expectations to resolve,
either by a signal arriving, a guard timeout, or a pure timeout.

Environment:
  CASCADEPLAY_LOG_LEVEL     default for --log-level
  CASCADEPLAY_GUARD         default for --guard
  CASCADEPLAY_SIGNAL_GUARD  default for --signal-guard
  CASCADEPLAY_TIMEOUT       default for --timeout`,
		SilenceUsage: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.AddCommand(
		newRunCmd(cfg),
		newValidateCmd(),
	)
	return cmd
}
