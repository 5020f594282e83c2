package stack

import (
	"github.com/deepnoodle-ai/actrec/errz"
	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/deepnoodle-ai/actrec/internal/assert"
	"github.com/deepnoodle-ai/actrec/varenv"
)

func (c *Context) slotOf(f *frame.Frame, op string) int {
	i := int(uintptr(f.Addr()-c.bounds.Base) / frame.Size)
	assert.Thatf(c.bounds.Contains(f.Addr()) && i <= c.fp && &c.frames[i] == f, errz.Bounds, op,
		"frame at %s is not live in %s", f.Addr(), c)
	return i
}

// AttachVarEnv gives f a dynamic scope owned by c and returns it. If f already
// has one, that scope is returned.
func (c *Context) AttachVarEnv(f *frame.Frame) *varenv.Env {
	i := c.slotOf(f, "AttachVarEnv")
	if f.HasVarEnv() {
		return f.VarEnv()
	}
	env := varenv.New(c.heap)
	env.Enter()
	c.envs[i] = env
	f.SetVarEnv(env)
	c.logger.Trace().Str("fn", f.Func().Name()).Stringer("env", env.Addr()).Msg("attach dynamic scope")
	return env
}

// ShareVarEnv makes f borrow the dynamic scope of from, attaching one to from
// first if needed. Used by calls that run in their caller's scope.
func (c *Context) ShareVarEnv(f, from *frame.Frame) *varenv.Env {
	c.slotOf(f, "ShareVarEnv")
	assert.That(!f.HasVarEnv(), errz.Scope, "ShareVarEnv", "frame already has a dynamic scope")
	owner, ok := c.Lookup(from)
	if !ok {
		assert.Fail(errz.Scope, "ShareVarEnv", "source frame is not live in any related context")
		return nil
	}
	env := owner.AttachVarEnv(from)
	env.Enter()
	f.SetVarEnv(env)
	return env
}

// DetachVarEnv drops f's dynamic scope. The scope is freed once no frame
// references it.
func (c *Context) DetachVarEnv(f *frame.Frame) {
	c.releaseVarEnv(c.slotOf(f, "DetachVarEnv"))
	f.SetVarEnv(nil)
}

func (c *Context) releaseVarEnv(i int) {
	f := &c.frames[i]
	if !f.HasVarEnv() {
		return
	}
	env := f.VarEnv()
	if owned := c.envs[i]; owned != nil {
		assert.That(owned == env, errz.Scope, "releaseVarEnv", "frame scope differs from the scope its context owns")
		c.envs[i] = nil
	}
	// Frames borrowing the scope may outlive the owner, e.g. a suspended
	// segment entered from it; the last one to exit frees it.
	env.Exit()
}

// Lookup returns the context among c and its origins in which f is live.
func (c *Context) Lookup(f *frame.Frame) (*Context, bool) {
	for ctx := c; ctx != nil; ctx = ctx.origin {
		if !ctx.bounds.Contains(f.Addr()) {
			continue
		}
		i := int(uintptr(f.Addr()-ctx.bounds.Base) / frame.Size)
		if i <= ctx.fp && &ctx.frames[i] == f {
			return ctx, true
		}
	}
	return nil, false
}
