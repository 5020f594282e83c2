package stack

import "github.com/gofrs/uuid"

// PushEvent describes a frame pushed on a context.
type PushEvent struct {
	// Context identifies the execution context.
	Context uuid.UUID

	// FunctionName is the name of the called function.
	FunctionName string

	// NumArgs is the number of arguments passed.
	NumArgs uint32

	// Depth is the number of frames after the push.
	Depth int
}

// PopEvent describes a frame popped at a normal return.
type PopEvent struct {
	Context      uuid.UUID
	FunctionName string

	// Depth is the number of frames after the pop.
	Depth int
}

// UnwindEvent describes a frame popped while unwinding.
type UnwindEvent struct {
	Context      uuid.UUID
	FunctionName string
	Depth        int

	// Released is true when the unwinder released the frame's locals, and
	// false when they had already been released.
	Released bool
}

// Observer receives frame lifecycle events. Methods are called synchronously
// on the hot call path and should be fast.
type Observer interface {
	OnPush(event PushEvent)
	OnPop(event PopEvent)
	OnUnwind(event UnwindEvent)
}

// NoOpObserver is an Observer that does nothing. Embed it to implement only
// the methods you need.
type NoOpObserver struct{}

func (NoOpObserver) OnPush(PushEvent)     {}
func (NoOpObserver) OnPop(PopEvent)       {}
func (NoOpObserver) OnUnwind(UnwindEvent) {}

var _ Observer = NoOpObserver{}
