package frame

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/actrec/errz"
	"github.com/deepnoodle-ai/actrec/internal/assert"
)

const (
	// NumArgsBits is the width of the argument count in the packed word.
	NumArgsBits = 28

	NumArgsMask uint32 = 1<<NumArgsBits - 1
	FlagsMask   uint32 = ^NumArgsMask

	// MaxNumArgs is the largest argument count the packed word can hold.
	MaxNumArgs = NumArgsMask
)

// Flags is the flag half of the packed args/flags word. Its values occupy
// only the bits above NumArgsBits.
type Flags uint32

const (
	FlagsNone Flags = 0

	// LocalsDecRefd is set once the frame's locals have been released, so an
	// unwinder does not release them a second time.
	LocalsDecRefd Flags = 1 << 28

	// Bit 29 is reserved.

	// InResumed and AsyncEagerRet are the values of the two-bit execution
	// mode field. Zero is normal execution.
	InResumed     Flags = 1 << 30
	AsyncEagerRet Flags = 2 << 30

	ExecutionModeMask Flags = 3 << 30
)

// Has reports whether every bit of other is set in fl.
func (fl Flags) Has(other Flags) bool {
	return fl&other == other
}

// Mode returns the execution mode encoded in fl.
func (fl Flags) Mode() Mode {
	switch fl & ExecutionModeMask {
	case 0:
		return Normal
	case InResumed:
		return Resumed
	case AsyncEagerRet:
		return EagerReturn
	default:
		return invalidMode
	}
}

func (fl Flags) String() string {
	var parts []string
	if fl.Has(LocalsDecRefd) {
		parts = append(parts, "LocalsDecRefd")
	}
	if m := fl.Mode(); m != Normal {
		parts = append(parts, m.String())
	}
	if rest := uint32(fl) &^ uint32(LocalsDecRefd|ExecutionModeMask); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", rest))
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

// Mode is the execution mode of a frame.
type Mode uint8

const (
	Normal Mode = iota
	Resumed
	EagerReturn
	invalidMode
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Resumed:
		return "InResumed"
	case EagerReturn:
		return "AsyncEagerRet"
	default:
		return "Invalid"
	}
}

// EncodeNumArgsAndFlags packs an argument count and flags into one word. The
// count must not reach into the flag bits and the flags must not reach into
// the count bits.
func EncodeNumArgsAndFlags(numArgs uint32, flags Flags) uint32 {
	assert.Thatf(numArgs&FlagsMask == 0, errz.Layout, "EncodeNumArgsAndFlags",
		"num args %d overlaps flag bits", numArgs)
	assert.Thatf(uint32(flags)&NumArgsMask == 0, errz.Layout, "EncodeNumArgsAndFlags",
		"flags 0x%x overlap num args bits", uint32(flags))
	return numArgs | uint32(flags)
}

// DecodeNumArgsAndFlags splits a packed word into its count and flags.
func DecodeNumArgsAndFlags(word uint32) (uint32, Flags) {
	return word & NumArgsMask, Flags(word & FlagsMask)
}

// NumArgs returns the number of arguments passed to the call.
func (f *Frame) NumArgs() uint32 {
	return f.numArgsAndFlags & NumArgsMask
}

// Flags returns the frame's flags.
func (f *Frame) Flags() Flags {
	return Flags(f.numArgsAndFlags & FlagsMask)
}

// NumArgsAndFlags returns the raw packed word.
func (f *Frame) NumArgsAndFlags() uint32 {
	return f.numArgsAndFlags
}

func (f *Frame) LocalsDecRefd() bool {
	return f.Flags().Has(LocalsDecRefd)
}

func (f *Frame) Resumed() bool {
	return f.Flags()&ExecutionModeMask == InResumed
}

func (f *Frame) IsAsyncEagerReturn() bool {
	return f.Flags()&ExecutionModeMask == AsyncEagerRet
}

// Mode returns the frame's execution mode.
func (f *Frame) Mode() Mode {
	return f.Flags().Mode()
}

// InitNumArgs sets the argument count and clears every flag.
func (f *Frame) InitNumArgs(numArgs uint32) {
	f.numArgsAndFlags = EncodeNumArgsAndFlags(numArgs, FlagsNone)
}

// SetNumArgs sets the argument count, keeping the flags.
func (f *Frame) SetNumArgs(numArgs uint32) {
	f.numArgsAndFlags = EncodeNumArgsAndFlags(numArgs, f.Flags())
}

// SetLocalsDecRefd marks the locals as released. The flag is never cleared
// for the rest of the frame's life.
func (f *Frame) SetLocalsDecRefd() {
	f.numArgsAndFlags |= uint32(LocalsDecRefd)
}

// SetResumed switches the frame to resumed execution. The frame must still be
// in normal mode.
func (f *Frame) SetResumed() {
	f.setMode(InResumed, "SetResumed")
}

// SetAsyncEagerReturn switches the frame to async eager return. The frame must
// still be in normal mode.
func (f *Frame) SetAsyncEagerReturn() {
	f.setMode(AsyncEagerRet, "SetAsyncEagerReturn")
}

func (f *Frame) setMode(mode Flags, op string) {
	flags := f.Flags()
	assert.Thatf(flags&ExecutionModeMask == 0, errz.Mode, op,
		"execution mode is already %s", flags.Mode())
	f.numArgsAndFlags = EncodeNumArgsAndFlags(f.NumArgs(), flags&LocalsDecRefd|mode)
}
