package frame

import (
	"github.com/deepnoodle-ai/actrec/errz"
	"github.com/deepnoodle-ai/actrec/internal/assert"
	"github.com/deepnoodle-ai/actrec/object"
	"github.com/deepnoodle-ai/actrec/varenv"
)

// TrashedVarEnvSlot is the image value of a poisoned dynamic-scope slot.
const TrashedVarEnvSlot = object.Addr(^uintptr(0) &^ 0x1f)

// trashedVarEnv marks a poisoned dynamic-scope slot. It is never handed out
// as a real env.
var trashedVarEnv = &varenv.Env{}

// TrashVarEnv poisons the dynamic-scope slot.
func (f *Frame) TrashVarEnv() {
	if assert.Enabled {
		f.SetVarEnv(trashedVarEnv)
	}
}

// CheckVarEnv asserts that the dynamic-scope slot has not been poisoned.
func (f *Frame) CheckVarEnv() bool {
	assert.That(f.varEnv != trashedVarEnv, errz.Trashed, "CheckVarEnv",
		"dynamic scope read after teardown")
	return true
}

// HasVarEnv reports whether a dynamic scope is attached.
func (f *Frame) HasVarEnv() bool {
	f.CheckVarEnv()
	return f.varEnv != nil
}

// VarEnv returns the attached dynamic scope.
func (f *Frame) VarEnv() *varenv.Env {
	assert.That(f.HasVarEnv(), errz.Scope, "VarEnv", "no dynamic scope attached")
	return f.varEnv
}

// SetVarEnv attaches env, which may be nil. The frame never owns it.
func (f *Frame) SetVarEnv(env *varenv.Env) {
	f.varEnv = env
}

func (f *Frame) varEnvSlot() object.Addr {
	switch f.varEnv {
	case nil:
		return object.Null
	case trashedVarEnv:
		return TrashedVarEnvSlot
	default:
		return f.varEnv.Addr()
	}
}
