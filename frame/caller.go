package frame

import (
	"fmt"

	"github.com/deepnoodle-ai/actrec/object"
)

// NoCaller is the caller link of the first frame of an execution context
// that was not entered from another context. Stack regions never start at
// zero, so it lies outside every region.
const NoCaller object.Addr = object.Null

// Bounds is the address range [Base, Base+Size) of one execution context's
// frame region.
type Bounds struct {
	Base object.Addr
	Size uintptr
}

// Contains reports whether addr lies inside the region. Addresses below Base
// wrap around to large offsets and fall outside.
func (b Bounds) Contains(addr object.Addr) bool {
	return uintptr(addr)-uintptr(b.Base) < b.Size
}

// End returns the first address past the region.
func (b Bounds) End() object.Addr {
	return b.Base + object.Addr(b.Size)
}

// Overlaps reports whether the two regions share any address.
func (b Bounds) Overlaps(other Bounds) bool {
	return b.Base < other.End() && other.Base < b.End()
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%s, %s)", b.Base, b.End())
}

// Stack is a frame region that can map addresses back to frames.
type Stack interface {
	Bounds() Bounds
	FrameAt(addr object.Addr) *Frame
}

// CallerLink returns the raw caller link.
func (f *Frame) CallerLink() object.Addr {
	return f.callerLink
}

// SetCallerLink replaces the raw caller link.
func (f *Frame) SetCallerLink(addr object.Addr) {
	f.callerLink = addr
}

// HasCaller reports whether the caller link lies inside b.
func (f *Frame) HasCaller(b Bounds) bool {
	return b.Contains(f.callerLink)
}

// CallerFrame returns the caller of f within s, or nil when the caller link
// lies outside the bounds of s.
func (f *Frame) CallerFrame(s Stack) *Frame {
	if !f.HasCaller(s.Bounds()) {
		return nil
	}
	return s.FrameAt(f.callerLink)
}
