package stack

import (
	"testing"

	"github.com/deepnoodle-ai/actrec/errz"
	"github.com/stretchr/testify/require"
)

func TestAttachVarEnvIsOwnedByContext(t *testing.T) {
	fx := newFixture()
	c := fx.context(t)
	f := push(t, c, fx.main, 0)
	live := fx.heap.Len()

	env := c.AttachVarEnv(f)
	require.Same(t, env, f.VarEnv())
	require.Same(t, env, c.AttachVarEnv(f))
	require.Equal(t, live+1, fx.heap.Len())
	env.Set("x", 1)

	require.Nil(t, c.Pop())
	require.Equal(t, live, fx.heap.Len())
	_, ok := fx.heap.Resolve(env.Addr())
	require.False(t, ok)
}

func TestShareVarEnvWithCaller(t *testing.T) {
	fx := newFixture()
	c := fx.context(t)
	main := push(t, c, fx.main, 0)
	callee := push(t, c, fx.helper, 0)

	env := c.ShareVarEnv(callee, main)
	require.Same(t, env, main.VarEnv())
	require.Same(t, env, callee.VarEnv())
	require.Equal(t, 2, env.Depth())

	require.Nil(t, c.Pop())
	require.Equal(t, 1, env.Depth())
	_, ok := fx.heap.Resolve(env.Addr())
	require.True(t, ok)

	require.Nil(t, c.Pop())
	_, ok = fx.heap.Resolve(env.Addr())
	require.False(t, ok)
}

func TestShareVarEnvAcrossSegment(t *testing.T) {
	fx := newFixture()
	native := fx.context(t)
	main := push(t, native, fx.main, 0)
	seg, err := NewSegment(native)
	require.Nil(t, err)
	body := push(t, seg, fx.helper, 0)

	env := seg.ShareVarEnv(body, main)
	require.Same(t, env, main.VarEnv())
	require.Nil(t, seg.Pop())
	require.Same(t, env, main.VarEnv())
}

func TestSharedVarEnvOutlivesOwnerFrame(t *testing.T) {
	fx := newFixture()
	native := fx.context(t)
	main := push(t, native, fx.main, 0)
	live := fx.heap.Len()
	native.AttachVarEnv(main)
	seg, err := NewSegment(native)
	require.Nil(t, err)
	body := push(t, seg, fx.helper, 0)
	env := seg.ShareVarEnv(body, main)

	// The origin returns while the segment is suspended.
	require.Nil(t, native.Pop())
	require.Equal(t, 1, env.Depth())
	_, ok := fx.heap.Resolve(env.Addr())
	require.True(t, ok)
	require.Same(t, env, body.VarEnv())

	require.Nil(t, seg.Pop())
	require.Equal(t, 0, env.Depth())
	_, ok = fx.heap.Resolve(env.Addr())
	require.False(t, ok)
	require.Equal(t, live, fx.heap.Len())
}

func TestDetachVarEnv(t *testing.T) {
	fx := newFixture()
	c := fx.context(t)
	f := push(t, c, fx.main, 0)
	env := c.AttachVarEnv(f)
	c.DetachVarEnv(f)
	require.False(t, f.HasVarEnv())
	_, ok := fx.heap.Resolve(env.Addr())
	require.False(t, ok)

	// Detaching a frame without a scope is a no-op.
	c.DetachVarEnv(f)
	require.False(t, f.HasVarEnv())
}

func TestScopeMisuse(t *testing.T) {
	fx := newFixture()
	c := fx.context(t)
	main := push(t, c, fx.main, 0)
	callee := push(t, c, fx.helper, 0)
	c.AttachVarEnv(callee)
	requireViolation(t, errz.Scope, func() { c.ShareVarEnv(callee, main) })

	other := fx.context(t)
	stranger := push(t, other, fx.main, 0)
	requireViolation(t, errz.Bounds, func() { c.AttachVarEnv(stranger) })
}

func TestShareVarEnvFromUnrelatedContext(t *testing.T) {
	fx := newFixture()
	c := fx.context(t)
	callee := push(t, c, fx.helper, 0)
	other := fx.context(t)
	stranger := push(t, other, fx.main, 0)
	requireViolation(t, errz.Scope, func() { c.ShareVarEnv(callee, stranger) })
}
