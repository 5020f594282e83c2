//go:build !release

package assert

// Enabled reports whether invariant checks and trash poisoning are active.
const Enabled = true
