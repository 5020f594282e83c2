// Package frame implements the activation record shared by the bytecode
// interpreter and generated code. Both sides read and write the same field
// offsets, the same split of the args/flags word and the same call-context tag
// bit, so every encoding in this package is a fixed contract.
//
// Accessors check their preconditions through the internal/assert layer.
// Violations panic with an *errz.InvariantError unless built with the release
// tag, in which case the checks are compiled out.
package frame

import (
	"github.com/deepnoodle-ai/actrec/object"
	"github.com/deepnoodle-ai/actrec/rx"
	"github.com/deepnoodle-ai/actrec/varenv"
)

// Func is the function metadata a frame borrows. It must outlive every frame
// that references it.
type Func interface {
	Addr() object.Addr
	Name() string
	IsMethod() bool
	IsStaticInPrologue() bool
	RxLevel() rx.Level
	IsRxConditional() bool
	Unit() *object.Unit
	Validate()
}

// Frame is a fixed-size activation record. Frames are never copied: they are
// created in place by an execution context and always addressed by pointer.
type Frame struct {
	callerLink      object.Addr
	fn              Func
	numArgsAndFlags uint32
	thisOrClass     object.Addr
	varEnv          *varenv.Env

	// Address of the frame itself. Not part of the image.
	addr object.Addr
}

// Init prepares the frame for a call to fn. The call context and dynamic
// scope start empty and the flags start cleared.
func (f *Frame) Init(fn Func, callerLink object.Addr, numArgs uint32) {
	f.fn = fn
	f.callerLink = callerLink
	f.InitNumArgs(numArgs)
	f.thisOrClass = object.Null
	f.varEnv = nil
}

// Place records the address the frame occupies in its stack region.
func (f *Frame) Place(addr object.Addr) {
	f.addr = addr
}

// Addr returns the address the frame occupies in its stack region.
func (f *Frame) Addr() object.Addr {
	return f.addr
}

// Func returns the function being executed.
func (f *Frame) Func() Func {
	return f.fn
}

// Unit returns the compilation unit owning the function.
func (f *Frame) Unit() *object.Unit {
	f.fn.Validate()
	return f.fn.Unit()
}

// MinimumReactivityLevel returns the reactivity enforced for this call. A
// function whose reactivity is conditional depends on call-site information
// the frame does not hold, so its floor is the weakest level.
func (f *Frame) MinimumReactivityLevel() rx.Level {
	if f.fn.IsRxConditional() {
		return rx.None
	}
	return f.fn.RxLevel()
}

// Teardown poisons the call-context and dynamic-scope slots so a later read
// of either fails an assertion. It has no effect in release builds.
func (f *Frame) Teardown() {
	f.TrashThis()
	f.TrashVarEnv()
}
