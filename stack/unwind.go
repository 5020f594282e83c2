package stack

import "github.com/deepnoodle-ai/actrec/frame"

// ReleaseLocals releases f's locals unless they were released already. It
// reports whether the releaser ran.
func (c *Context) ReleaseLocals(f *frame.Frame) bool {
	if f.LocalsDecRefd() {
		return false
	}
	c.releaser.ReleaseLocals(f)
	f.SetLocalsDecRefd()
	return true
}

// UnwindTo pops frames until depth frames remain, releasing the locals of
// every frame that has not released them yet. It returns the number of
// frames popped.
func (c *Context) UnwindTo(depth int) int {
	if depth < 0 {
		depth = 0
	}
	popped := 0
	for c.Depth() > depth {
		f := c.Top()
		name := f.Func().Name()
		released := c.ReleaseLocals(f)
		c.teardown()
		popped++
		c.logger.Debug().
			Str("fn", name).
			Bool("released", released).
			Int("depth", c.Depth()).
			Msg("unwind")
		c.observer.OnUnwind(UnwindEvent{
			Context:      c.id,
			FunctionName: name,
			Depth:        c.Depth(),
			Released:     released,
		})
	}
	return popped
}

// Unwind pops every frame of c.
func (c *Context) Unwind() int {
	return c.UnwindTo(0)
}
