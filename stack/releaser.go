package stack

import "github.com/deepnoodle-ai/actrec/frame"

// Releaser releases the locals held by a frame. It is the hook through which
// reference-counted cleanup runs.
type Releaser interface {
	ReleaseLocals(f *frame.Frame)
}

// ReleaserFunc adapts a function to the Releaser interface.
type ReleaserFunc func(f *frame.Frame)

func (fn ReleaserFunc) ReleaseLocals(f *frame.Frame) {
	fn(f)
}

type noopReleaser struct{}

func (noopReleaser) ReleaseLocals(*frame.Frame) {}
