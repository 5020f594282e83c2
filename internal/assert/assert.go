// Package assert is the validation layer for frame invariants. Checks panic
// with an *errz.InvariantError. Building with the release tag turns Enabled
// into a false constant and every check into a no-op.
package assert

import "github.com/deepnoodle-ai/actrec/errz"

// That panics with an InvariantError when cond is false.
func That(cond bool, kind errz.Kind, op, message string) {
	if Enabled && !cond {
		panic(errz.New(kind, op, message))
	}
}

// Thatf is like That with a formatted message. The arguments are only
// formatted when the check fails.
func Thatf(cond bool, kind errz.Kind, op, format string, args ...any) {
	if Enabled && !cond {
		panic(errz.Newf(kind, op, format, args...))
	}
}

// Fail panics unconditionally when checks are enabled.
func Fail(kind errz.Kind, op, message string) {
	if Enabled {
		panic(errz.New(kind, op, message))
	}
}
