// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eventcascade

// Decorate wraps fn, calling before and after (if non-nil) with the same
// argument.
func Decorate[A, R any](fn func(A) R, before, after func(A)) func(A) R {
	return func(arg A) R {
		if before != nil {
			before(arg)
		}
		result := fn(arg)
		if after != nil {
			after(arg)
		}
		return result
	}
}
