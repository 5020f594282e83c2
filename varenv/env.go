// Package varenv implements the dynamic scope: a name-indexed store for
// locals that have no statically compiled slot. An Env is created by the
// execution context of the frame that first needs it and is freed when the
// last frame referencing it detaches.
package varenv

import (
	"sort"

	"github.com/deepnoodle-ai/actrec/object"
)

// Env is a name-indexed local variable store.
type Env struct {
	vars  map[string]any
	depth int
	heap  *object.Heap
	addr  object.Addr
}

// New allocates an empty env on h.
func New(h *object.Heap) *Env {
	e := &Env{vars: map[string]any{}, heap: h}
	e.addr = h.Alloc(e)
	return e
}

func (e *Env) Addr() object.Addr { return e.addr }

// Get returns the named variable.
func (e *Env) Get(name string) (any, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to value, replacing any existing binding.
func (e *Env) Set(name string, value any) {
	e.vars[name] = value
}

// Unset removes the binding for name.
func (e *Env) Unset(name string) {
	delete(e.vars, name)
}

// Len returns the number of bound variables.
func (e *Env) Len() int {
	return len(e.vars)
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enter records that another frame has attached to the env.
func (e *Env) Enter() { e.depth++ }

// Exit records that a frame has detached and reports whether no frame
// references the env any more. The last frame to exit frees the env's
// address, whichever context that frame lives in.
func (e *Env) Exit() bool {
	if e.depth == 0 {
		return true
	}
	e.depth--
	if e.depth == 0 && e.heap != nil {
		e.heap.Free(e.addr)
	}
	return e.depth == 0
}

// Depth returns the number of frames currently attached.
func (e *Env) Depth() int { return e.depth }
