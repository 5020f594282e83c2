package stack

import (
	"github.com/deepnoodle-ai/actrec/object"
	"github.com/rs/zerolog"
)

// Option is a configuration function for a Context.
type Option func(*Context)

// WithMaxDepth sets the number of frames the context's region can hold.
func WithMaxDepth(depth int) Option {
	return func(c *Context) {
		c.maxDepth = depth
	}
}

// WithHeap sets the heap dynamic scopes are allocated on. Contexts sharing
// descriptors should share a heap.
func WithHeap(h *object.Heap) Option {
	return func(c *Context) {
		c.heap = h
	}
}

// WithLogger sets the logger for frame lifecycle events. The default logger
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithObserver sets an observer for push, pop and unwind events.
func WithObserver(observer Observer) Option {
	return func(c *Context) {
		c.observer = observer
	}
}

// WithReleaser sets the collaborator that releases a frame's locals.
func WithReleaser(releaser Releaser) Option {
	return func(c *Context) {
		c.releaser = releaser
	}
}

// WithOrigin makes the context a detached segment entered from origin. The
// first frame pushed on the segment links to the frame on top of origin at
// the time the segment is created.
func WithOrigin(origin *Context) Option {
	return func(c *Context) {
		c.origin = origin
	}
}
