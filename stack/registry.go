package stack

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/deepnoodle-ai/actrec/object"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultRegionBase is where the first frame region starts. It is far
	// from zero so that frame.NoCaller is never inside a region.
	DefaultRegionBase object.Addr = 0x10_0000

	// RegionGap is the unused space left between consecutive regions.
	RegionGap = 0x1000
)

var (
	ErrAddressSpaceExhausted = errors.New("frame address space exhausted")
	ErrUnknownContext        = errors.New("unknown execution context")
)

// Registry reserves non-overlapping frame regions and records which context
// owns each one. It answers the bounds of any registered context, including
// contexts other than the one currently running. A Registry is safe for
// concurrent use; the contexts it holds are not.
type Registry struct {
	mu       sync.RWMutex
	next     object.Addr
	contexts []*Context
}

// NewRegistry returns a registry whose first region starts at
// DefaultRegionBase.
func NewRegistry() *Registry {
	return NewRegistryAt(DefaultRegionBase)
}

// NewRegistryAt returns a registry whose first region starts at base.
func NewRegistryAt(base object.Addr) *Registry {
	if base.IsNull() {
		panic("registry base must not be null")
	}
	return &Registry{next: base}
}

func (r *Registry) reserve(c *Context) error {
	size := uintptr(c.maxDepth) * frame.Size
	r.mu.Lock()
	defer r.mu.Unlock()
	base := r.next
	end := uintptr(base) + size + RegionGap
	if end < uintptr(base) {
		return fmt.Errorf("%w: %d frames requested at %s", ErrAddressSpaceExhausted, c.maxDepth, base)
	}
	c.bounds = frame.Bounds{Base: base, Size: size}
	r.next = object.Addr(end)
	r.contexts = append(r.contexts, c)
	return nil
}

// Release unregisters c. Its region is not handed out again.
func (r *Registry) Release(c *Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ctx := range r.contexts {
		if ctx == c {
			r.contexts = append(r.contexts[:i], r.contexts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownContext, c.id)
}

// Lookup returns the context whose region contains addr.
func (r *Registry) Lookup(addr object.Addr) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	// Regions are reserved in ascending order.
	i := sort.Search(len(r.contexts), func(i int) bool {
		return r.contexts[i].bounds.End() > addr
	})
	if i < len(r.contexts) && r.contexts[i].bounds.Contains(addr) {
		return r.contexts[i], true
	}
	return nil, false
}

// Bounds returns the bounds of the context with the given id.
func (r *Registry) Bounds(id uuid.UUID) (frame.Bounds, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.contexts {
		if c.id == id {
			return c.bounds, true
		}
	}
	return frame.Bounds{}, false
}

// Len returns the number of registered contexts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contexts)
}

// CallerFrame resolves the caller of f in whichever registered context owns
// the caller link.
func (r *Registry) CallerFrame(f *frame.Frame) (*frame.Frame, *Context) {
	owner, ok := r.Lookup(f.CallerLink())
	if !ok || !owner.isLive(f.CallerLink()) {
		return nil, nil
	}
	return f.CallerFrame(owner), owner
}

// Verify checks that no two regions overlap and that no region contains
// frame.NoCaller.
func (r *Registry) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result *multierror.Error
	for i, a := range r.contexts {
		if a.bounds.Contains(frame.NoCaller) {
			result = multierror.Append(result, fmt.Errorf("context %s region %s contains the no-caller link", a.id, a.bounds))
		}
		for _, b := range r.contexts[i+1:] {
			if a.bounds.Overlaps(b.bounds) {
				result = multierror.Append(result, fmt.Errorf("context %s region %s overlaps context %s region %s",
					a.id, a.bounds, b.id, b.bounds))
			}
		}
	}
	return result.ErrorOrNil()
}
