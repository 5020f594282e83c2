package object

import (
	"fmt"
	"sync"
)

// DefaultHeapBase is the first address handed out by NewHeap.
const DefaultHeapBase Addr = 0x7f00_0000_0000

// Heap assigns aligned addresses to descriptors, instances and dynamic
// scopes so they can be referenced from a frame's raw slots. Addresses are
// never reused, so a stale address resolves to nothing rather than to an
// unrelated object. A Heap is safe for concurrent use.
type Heap struct {
	mu      sync.RWMutex
	next    Addr
	objects map[Addr]any
}

// NewHeap returns an empty heap starting at DefaultHeapBase.
func NewHeap() *Heap {
	return NewHeapAt(DefaultHeapBase)
}

// NewHeapAt returns an empty heap whose first address is base. The base must
// be non-null and aligned.
func NewHeapAt(base Addr) *Heap {
	if base.IsNull() || !base.IsAligned() {
		panic(fmt.Sprintf("heap base %s must be non-null and %d-byte aligned", base, Alignment))
	}
	return &Heap{next: base, objects: map[Addr]any{}}
}

// Alloc assigns the next free address to v.
func (h *Heap) Alloc(v any) Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	addr := h.next
	h.next += Alignment
	h.objects[addr] = v
	return addr
}

// Resolve returns the value stored at addr.
func (h *Heap) Resolve(addr Addr) (any, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.objects[addr]
	return v, ok
}

// Free releases addr. Freeing an unknown address is a no-op.
func (h *Heap) Free(addr Addr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.objects, addr)
}

// Len returns the number of live allocations.
func (h *Heap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.objects)
}

// ResolveInstance returns the instance at addr.
func (h *Heap) ResolveInstance(addr Addr) (*Instance, bool) {
	v, ok := h.Resolve(addr)
	if !ok {
		return nil, false
	}
	inst, ok := v.(*Instance)
	return inst, ok
}

// ResolveClass returns the class at addr.
func (h *Heap) ResolveClass(addr Addr) (*Class, bool) {
	v, ok := h.Resolve(addr)
	if !ok {
		return nil, false
	}
	cls, ok := v.(*Class)
	return cls, ok
}
