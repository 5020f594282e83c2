package stack

import (
	"github.com/deepnoodle-ai/actrec/errz"
	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/deepnoodle-ai/actrec/internal/assert"
	"github.com/deepnoodle-ai/actrec/object"
)

// Suspend marks f as running inside a resumable. The frame must be in normal
// mode; it changes mode at most once.
func (c *Context) Suspend(f *frame.Frame) {
	f.SetResumed()
	c.logger.Trace().Str("fn", f.Func().Name()).Msg("resumed")
}

// EagerReturn marks f as returning eagerly from an async call without
// suspending. The frame must be in normal mode.
func (c *Context) EagerReturn(f *frame.Frame) {
	f.SetAsyncEagerReturn()
	c.logger.Trace().Str("fn", f.Func().Name()).Msg("async eager return")
}

// Resume re-enters segment c from caller, which must be live in c's origin.
// The segment's first frame, and any frame pushed while the segment is
// empty, links to caller from now on.
func (c *Context) Resume(caller *frame.Frame) {
	if c.origin == nil {
		assert.Fail(errz.Bounds, "Resume", "context is not a segment")
		return
	}
	c.origin.slotOf(caller, "Resume")
	c.relink(caller.Addr())
}

func (c *Context) relink(link object.Addr) {
	c.originLink = link
	if c.fp >= 0 {
		c.frames[0].SetCallerLink(link)
	}
	c.logger.Trace().Stringer("caller", link).Msg("relink segment")
}

// orphanSegments unlinks the segments entered from the frame at addr, which
// has just been torn down.
func (c *Context) orphanSegments(addr object.Addr) {
	for _, seg := range c.segments {
		if seg.originLink == addr {
			seg.relink(frame.NoCaller)
		}
	}
}

func (c *Context) forgetSegment(seg *Context) {
	for i, other := range c.segments {
		if other == seg {
			c.segments = append(c.segments[:i], c.segments[i+1:]...)
			return
		}
	}
}
