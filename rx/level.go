// Package rx defines reactivity levels, the declared purity classification
// enforced per call.
package rx

import (
	"fmt"
	"strings"
)

// Level is a reactivity level. Levels are ordered from weakest to strongest.
type Level uint8

const (
	// None places no restriction on the callee.
	None Level = iota
	Local
	Shallow
	Rx
	Pure
)

var levelNames = [...]string{
	None:    "none",
	Local:   "local",
	Shallow: "shallow",
	Rx:      "rx",
	Pure:    "pure",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l <= Pure
}

// AtLeast reports whether l is as strong as other.
func (l Level) AtLeast(other Level) bool {
	return l >= other
}

// Parse returns the level with the given name. Matching is case-insensitive.
func Parse(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return None, fmt.Errorf("unknown reactivity level: %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid reactivity level: %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
