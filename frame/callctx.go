package frame

import (
	"fmt"

	"github.com/deepnoodle-ai/actrec/errz"
	"github.com/deepnoodle-ai/actrec/internal/assert"
	"github.com/deepnoodle-ai/actrec/object"
)

// HasClassBit tags a call-context slot holding a class. Instance and class
// addresses are aligned, so the bit is never set in a real address.
const HasClassBit object.Addr = 1

// TrashedThisSlot is written to the call-context slot at teardown when
// assertions are enabled.
const TrashedThisSlot = object.Addr(^uintptr(0) &^ 0x0f)

// ContextKind identifies which variant the call-context slot holds.
type ContextKind uint8

const (
	Empty ContextKind = iota
	Instance
	TypeDescriptor
)

func (k ContextKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Instance:
		return "instance"
	case TypeDescriptor:
		return "class"
	default:
		return fmt.Sprintf("ContextKind(%d)", uint8(k))
	}
}

// CallContext is the decoded content of the call-context slot.
type CallContext struct {
	Kind ContextKind
	Addr object.Addr
}

// DecodeCallContext decodes a raw call-context slot.
func DecodeCallContext(p object.Addr) CallContext {
	switch {
	case p.IsNull():
		return CallContext{Kind: Empty}
	case CheckThisOrNull(p):
		return CallContext{Kind: Instance, Addr: p}
	default:
		return CallContext{Kind: TypeDescriptor, Addr: DecodeClass(p)}
	}
}

// Encode returns the raw slot value for c.
func (c CallContext) Encode() object.Addr {
	switch c.Kind {
	case Instance:
		return EncodeThis(c.Addr)
	case TypeDescriptor:
		return EncodeClass(c.Addr)
	default:
		return object.Null
	}
}

func EncodeThis(inst object.Addr) object.Addr {
	return inst
}

// EncodeClass tags a class address. The null class encodes to null.
func EncodeClass(cls object.Addr) object.Addr {
	if cls.IsNull() {
		return object.Null
	}
	return cls | HasClassBit
}

// CheckThis reports whether the non-null slot value p holds an instance.
func CheckThis(p object.Addr) bool {
	assert.That(!p.IsNull(), errz.Variant, "CheckThis", "call context is null")
	return p&HasClassBit == 0
}

// CheckThisOrNull reports whether p holds an instance or is null.
func CheckThisOrNull(p object.Addr) bool {
	return p&HasClassBit == 0
}

// DecodeThis returns the instance held by p, or null if p holds a class.
func DecodeThis(p object.Addr) object.Addr {
	if CheckThisOrNull(p) {
		return p
	}
	return object.Null
}

// DecodeClass returns the class held by p, or null if p holds an instance.
func DecodeClass(p object.Addr) object.Addr {
	if CheckThisOrNull(p) {
		return object.Null
	}
	return p - HasClassBit
}

func (f *Frame) assertMethod(op string) {
	assert.Thatf(f.fn.IsMethod(), errz.Variant, op,
		"%s is not a method", f.fn.Name())
}

// SetThisOrClass stores an already encoded call context.
func (f *Frame) SetThisOrClass(p object.Addr) {
	f.assertMethod("SetThisOrClass")
	f.SetThisOrClassAllowNull(p)
}

// SetThisOrClassAllowNull stores an encoded call context without checking that
// the function is a method.
func (f *Frame) SetThisOrClassAllowNull(p object.Addr) {
	f.thisOrClass = p
}

// HasThis reports whether an instance is bound.
func (f *Frame) HasThis() bool {
	f.assertMethod("HasThis")
	assert.That(f.thisOrClass != TrashedThisSlot, errz.Trashed, "HasThis",
		"call context read after teardown")
	return !f.thisOrClass.IsNull() && CheckThis(f.thisOrClass)
}

// HasClass reports whether a class is bound.
func (f *Frame) HasClass() bool {
	f.assertMethod("HasClass")
	assert.That(f.thisOrClass != TrashedThisSlot, errz.Trashed, "HasClass",
		"call context read after teardown")
	return !CheckThisOrNull(f.thisOrClass)
}

// ThisOrClass returns the raw encoded call context.
func (f *Frame) ThisOrClass() object.Addr {
	f.assertMethod("ThisOrClass")
	return f.thisOrClass
}

// ThisUnsafe returns the raw slot without any check.
func (f *Frame) ThisUnsafe() object.Addr {
	return f.thisOrClass
}

// CallContext returns the decoded call context.
func (f *Frame) CallContext() CallContext {
	f.assertMethod("CallContext")
	assert.That(f.thisOrClass != TrashedThisSlot, errz.Trashed, "CallContext",
		"call context read after teardown")
	return DecodeCallContext(f.thisOrClass)
}

// This returns the bound instance.
func (f *Frame) This() object.Addr {
	assert.That(f.HasThis(), errz.Variant, "This", "no instance bound")
	return f.thisOrClass
}

// Class returns the bound class with its tag removed.
func (f *Frame) Class() object.Addr {
	assert.That(f.HasClass(), errz.Variant, "Class", "no class bound")
	return f.thisOrClass - HasClassBit
}

// SetThis binds an instance. Only valid for a method whose prologue is not
// static.
func (f *Frame) SetThis(inst object.Addr) {
	f.assertMethod("SetThis")
	assert.Thatf(!f.fn.IsStaticInPrologue(), errz.Variant, "SetThis",
		"%s binds a class in its prologue", f.fn.Name())
	assert.Thatf(CheckThisOrNull(inst), errz.Layout, "SetThis",
		"instance address %s is not aligned", inst)
	f.thisOrClass = inst
}

// SetClass binds a class. Only valid for a method whose prologue is static.
func (f *Frame) SetClass(cls object.Addr) {
	assert.That(!cls.IsNull(), errz.Variant, "SetClass", "class is null")
	f.assertMethod("SetClass")
	assert.Thatf(f.fn.IsStaticInPrologue(), errz.Variant, "SetClass",
		"%s binds an instance in its prologue", f.fn.Name())
	assert.Thatf(CheckThisOrNull(cls), errz.Layout, "SetClass",
		"class address %s is not aligned", cls)
	f.thisOrClass = cls | HasClassBit
}

// TrashThis poisons the call-context slot.
func (f *Frame) TrashThis() {
	if assert.Enabled {
		f.thisOrClass = TrashedThisSlot
	}
}
