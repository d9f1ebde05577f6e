// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Config holds defaults for the run command, loaded from the environment.
// Flags take precedence.
type Config struct {
	LogLevel    string        `env:"CASCADEPLAY_LOG_LEVEL"    envDefault:"warning"`
	Guard       time.Duration `env:"CASCADEPLAY_GUARD"        envDefault:"20s"`
	SignalGuard time.Duration `env:"CASCADEPLAY_SIGNAL_GUARD" envDefault:"2s"`
	Timeout     time.Duration `env:"CASCADEPLAY_TIMEOUT"      envDefault:"5m"`
}

// LoadConfig parses [Config] from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func parseLevel(s string) (logiface.Level, error) {
	for level := logiface.LevelDisabled; level <= logiface.LevelTrace; level++ {
		if level.String() == s {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func newLogger(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}
