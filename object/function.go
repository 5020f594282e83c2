package object

import (
	"github.com/deepnoodle-ai/actrec/errz"
	"github.com/deepnoodle-ai/actrec/internal/assert"
	"github.com/deepnoodle-ai/actrec/rx"
)

// Function is the immutable metadata describing a compiled function. Frames
// borrow a reference to it for their whole lifetime.
type Function struct {
	name          string
	class         *Class
	static        bool
	rxLevel       rx.Level
	rxConditional bool
	unit          *Unit
	addr          Addr
}

// FunctionOption configures a Function at construction.
type FunctionOption func(*Function)

// WithClass makes the function a method of c.
func WithClass(c *Class) FunctionOption {
	return func(f *Function) {
		f.class = c
	}
}

// WithStatic marks a method as static: its prologue binds a class rather than
// an instance.
func WithStatic() FunctionOption {
	return func(f *Function) {
		f.static = true
	}
}

// WithRxLevel sets the declared reactivity level.
func WithRxLevel(level rx.Level) FunctionOption {
	return func(f *Function) {
		f.rxLevel = level
	}
}

// WithRxConditional marks the declared reactivity as conditional on
// call-site information.
func WithRxConditional() FunctionOption {
	return func(f *Function) {
		f.rxConditional = true
	}
}

// NewFunction allocates a function descriptor owned by unit.
func NewFunction(h *Heap, name string, unit *Unit, options ...FunctionOption) *Function {
	f := &Function{name: name, unit: unit}
	for _, opt := range options {
		opt(f)
	}
	f.addr = h.Alloc(f)
	return f
}

func (f *Function) Name() string { return f.name }

func (f *Function) Addr() Addr { return f.addr }

// Class returns the class the function is implemented on, or nil for a free
// function.
func (f *Function) Class() *Class { return f.class }

// IsMethod reports whether the function is implemented on a class.
func (f *Function) IsMethod() bool { return f.class != nil }

// IsStaticInPrologue reports whether the prologue binds a class instead of an
// instance.
func (f *Function) IsStaticInPrologue() bool { return f.static }

func (f *Function) RxLevel() rx.Level { return f.rxLevel }

func (f *Function) IsRxConditional() bool { return f.rxConditional }

func (f *Function) Unit() *Unit { return f.unit }

// Validate asserts that the descriptor is well formed.
func (f *Function) Validate() {
	assert.That(f.unit != nil, errz.Layout, "Function.Validate", "function has no unit")
	assert.That(!f.static || f.class != nil, errz.Variant, "Function.Validate", "static function is not a method")
	assert.That(f.rxLevel.Valid(), errz.Layout, "Function.Validate", "invalid reactivity level")
}
