package frame

import (
	"testing"

	"github.com/deepnoodle-ai/actrec/object"
	"github.com/stretchr/testify/require"
)

// sliceStack is a minimal Stack over a slice of frames.
type sliceStack struct {
	base   object.Addr
	frames []Frame
}

func (s *sliceStack) Bounds() Bounds {
	return Bounds{Base: s.base, Size: uintptr(len(s.frames) * Size)}
}

func (s *sliceStack) FrameAt(addr object.Addr) *Frame {
	return &s.frames[(addr-s.base)/Size]
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Base: 0x1000, Size: 0x100}
	require.True(t, b.Contains(0x1000))
	require.True(t, b.Contains(0x10ff))
	require.False(t, b.Contains(0x1100))
	require.False(t, b.Contains(0x0fff))
	require.False(t, b.Contains(NoCaller))
	require.False(t, b.Contains(object.Addr(^uintptr(0))))
	require.Equal(t, object.Addr(0x1100), b.End())
	require.Equal(t, "[0x1000, 0x1100)", b.String())
}

func TestBoundsOverlaps(t *testing.T) {
	a := Bounds{Base: 0x1000, Size: 0x100}
	require.True(t, a.Overlaps(Bounds{Base: 0x10f0, Size: 0x100}))
	require.True(t, a.Overlaps(Bounds{Base: 0x0f00, Size: 0x101}))
	require.False(t, a.Overlaps(Bounds{Base: 0x1100, Size: 0x100}))
	require.False(t, a.Overlaps(Bounds{Base: 0x0f00, Size: 0x100}))
}

func TestCallerFrame(t *testing.T) {
	fx := newFixture()
	s := &sliceStack{base: 0x40_0000, frames: make([]Frame, 3)}
	for i := range s.frames {
		s.frames[i].Place(s.base + object.Addr(i*Size))
	}
	s.frames[0].Init(fx.free, NoCaller, 0)
	s.frames[1].Init(fx.free, s.frames[0].Addr(), 1)
	s.frames[2].Init(fx.free, s.frames[1].Addr(), 2)

	require.Same(t, &s.frames[1], s.frames[2].CallerFrame(s))
	require.Same(t, &s.frames[0], s.frames[1].CallerFrame(s))
	require.Nil(t, s.frames[0].CallerFrame(s))
	require.False(t, s.frames[0].HasCaller(s.Bounds()))

	// A link into another region is not a caller in this one.
	s.frames[0].SetCallerLink(0x90_0000)
	require.Equal(t, object.Addr(0x90_0000), s.frames[0].CallerLink())
	require.Nil(t, s.frames[0].CallerFrame(s))
}
