package stack

import (
	"fmt"

	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/hashicorp/go-multierror"
)

// Verify checks every live frame of c against the chain invariants and
// returns all violations found. It never panics, so it can be used on a
// context whose frames may be corrupt.
func (c *Context) Verify() error {
	var result *multierror.Error
	fail := func(i int, format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("frame %d: %s", i, fmt.Sprintf(format, args...)))
	}
	for i := 0; i <= c.fp; i++ {
		f := &c.frames[i]
		if want := c.addrOf(i); f.Addr() != want {
			fail(i, "placed at %s, want %s", f.Addr(), want)
		}
		if f.Func() == nil {
			fail(i, "no function")
			continue
		}
		want := c.originLink
		if i > 0 {
			want = c.frames[i-1].Addr()
		}
		if link := f.CallerLink(); link != want {
			fail(i, "caller link %s, want %s", link, want)
		}
		if i == 0 && c.bounds.Contains(f.CallerLink()) {
			fail(i, "first frame links inside its own region %s", c.bounds)
		}
		if f.Mode() > frame.EagerReturn {
			fail(i, "invalid execution mode in flags %s", f.Flags())
		}
		img := f.Image()
		if img.ThisOrClass() == frame.TrashedThisSlot {
			fail(i, "live frame has a trashed call context")
		} else if cc := img.CallContext(); cc.Kind != frame.Empty && !f.Func().IsMethod() {
			fail(i, "%s is not a method but has a %s call context", f.Func().Name(), cc.Kind)
		}
		if img.VarEnvAddr() == frame.TrashedVarEnvSlot {
			fail(i, "live frame has a trashed dynamic scope")
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		c.logger.Warn().Err(err).Msg("context verification failed")
		return err
	}
	return nil
}
