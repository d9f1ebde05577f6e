// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// cascadeplay runs and validates event cascade scenario files.
package main

import (
	"os"

	"github.com/joeycumines/go-eventcascade/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
