// Package errz defines the error raised when a frame invariant is violated.
package errz

import (
	"errors"
	"fmt"
)

// ErrInvariant matches every *InvariantError via errors.Is.
var ErrInvariant = errors.New("invariant violated")

// Kind represents the category of a violated invariant.
type Kind int

const (
	// Layout indicates the packed args/flags word or the binary image is malformed.
	Layout Kind = iota
	// Mode indicates an illegal execution-mode transition.
	Mode
	// Variant indicates the call-context slot was queried for a free function
	// or holds a different variant than the one requested.
	Variant
	// Trashed indicates a read of a slot poisoned at teardown.
	Trashed
	// Bounds indicates a caller link or stack region outside its expected range.
	Bounds
	// Scope indicates misuse of the dynamic scope reference.
	Scope
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Layout:
		return "layout"
	case Mode:
		return "mode"
	case Variant:
		return "variant"
	case Trashed:
		return "trashed"
	case Bounds:
		return "bounds"
	case Scope:
		return "scope"
	default:
		return "invariant"
	}
}

// InvariantError describes a violated precondition on a frame operation.
type InvariantError struct {
	Kind    Kind
	Op      string
	Message string
}

// New returns an InvariantError for the given operation.
func New(kind Kind, op, message string) *InvariantError {
	return &InvariantError{Kind: kind, Op: op, Message: message}
}

// Newf returns an InvariantError with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *InvariantError {
	return New(kind, op, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s invariant: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s invariant: %s: %s", e.Kind, e.Op, e.Message)
}

// Is reports whether target is ErrInvariant.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// AsInvariant extracts an InvariantError from err, or from a recovered panic
// value.
func AsInvariant(v any) (*InvariantError, bool) {
	err, ok := v.(error)
	if !ok {
		return nil, false
	}
	var ie *InvariantError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
