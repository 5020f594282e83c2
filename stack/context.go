// Package stack provides execution contexts: bounded regions of frames that
// each form one linear call chain. A native call stack and every
// coroutine-backed segment get their own Context. Contexts are not safe for
// concurrent use; a scheduler hands a context to exactly one goroutine at a
// time.
package stack

import (
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/actrec/errz"
	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/deepnoodle-ai/actrec/internal/assert"
	"github.com/deepnoodle-ai/actrec/object"
	"github.com/deepnoodle-ai/actrec/varenv"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth is the default number of frames in a context's region.
const DefaultMaxDepth = 1024

var (
	ErrStackOverflow = errors.New("stack overflow")
	ErrStackEmpty    = errors.New("no frame to pop")
)

// Context is an execution context: a region of preallocated frames
// addressed as [base, base+maxDepth*frame.Size).
type Context struct {
	id       uuid.UUID
	registry *Registry
	bounds   frame.Bounds
	frames   []frame.Frame
	envs     []*varenv.Env // scopes owned by the frame in the same slot
	fp       int           // index of the top frame, -1 when empty
	maxDepth int

	origin     *Context
	originLink object.Addr
	segments   []*Context // segments entered from c

	heap     *object.Heap
	logger   zerolog.Logger
	observer Observer
	releaser Releaser
}

// NewContext reserves a region in r and returns an empty context over it.
func NewContext(r *Registry, options ...Option) (*Context, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generating context id: %w", err)
	}
	c := &Context{
		id:         id,
		registry:   r,
		fp:         -1,
		maxDepth:   DefaultMaxDepth,
		originLink: frame.NoCaller,
		logger:     zerolog.Nop(),
		observer:   NoOpObserver{},
		releaser:   noopReleaser{},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.maxDepth <= 0 {
		return nil, fmt.Errorf("invalid max depth: %d", c.maxDepth)
	}
	if c.heap == nil {
		if c.origin != nil {
			c.heap = c.origin.heap
		} else {
			c.heap = object.NewHeap()
		}
	}
	if c.origin != nil {
		if top := c.origin.Top(); top != nil {
			c.originLink = top.Addr()
		}
	}
	if err := r.reserve(c); err != nil {
		return nil, err
	}
	if c.origin != nil {
		c.origin.segments = append(c.origin.segments, c)
	}
	c.frames = make([]frame.Frame, c.maxDepth)
	c.envs = make([]*varenv.Env, c.maxDepth)
	for i := range c.frames {
		c.frames[i].Place(c.addrOf(i))
	}
	c.logger = c.logger.With().Str("context", c.id.String()).Logger()
	c.logger.Debug().
		Stringer("bounds", c.bounds).
		Bool("segment", c.origin != nil).
		Msg("execution context created")
	return c, nil
}

// NewSegment creates a detached coroutine segment entered from origin. It
// shares the origin's registry and, unless overridden, its heap.
func NewSegment(origin *Context, options ...Option) (*Context, error) {
	options = append([]Option{WithOrigin(origin)}, options...)
	return NewContext(origin.registry, options...)
}

func (c *Context) addrOf(i int) object.Addr {
	return c.bounds.Base + object.Addr(i*frame.Size)
}

func (c *Context) ID() uuid.UUID { return c.id }

// Bounds returns the context's frame region.
func (c *Context) Bounds() frame.Bounds { return c.bounds }

// Origin returns the context a segment was entered from, or nil.
func (c *Context) Origin() *Context { return c.origin }

// Heap returns the heap dynamic scopes are allocated on.
func (c *Context) Heap() *object.Heap { return c.heap }

// Depth returns the number of live frames.
func (c *Context) Depth() int { return c.fp + 1 }

// Top returns the most recently pushed frame, or nil.
func (c *Context) Top() *frame.Frame {
	if c.fp < 0 {
		return nil
	}
	return &c.frames[c.fp]
}

// isLive reports whether addr is the address of a live frame of c.
func (c *Context) isLive(addr object.Addr) bool {
	offset := uintptr(addr - c.bounds.Base)
	return c.bounds.Contains(addr) && offset%frame.Size == 0 && int(offset/frame.Size) <= c.fp
}

// FrameAt returns the live frame at addr.
func (c *Context) FrameAt(addr object.Addr) *frame.Frame {
	offset := uintptr(addr - c.bounds.Base)
	assert.Thatf(c.bounds.Contains(addr) && offset%frame.Size == 0, errz.Bounds, "FrameAt",
		"%s is not a frame address in %s", addr, c.bounds)
	i := int(offset / frame.Size)
	assert.Thatf(i <= c.fp, errz.Bounds, "FrameAt",
		"%s is above the top of the stack", addr)
	return &c.frames[i]
}

// Push activates a frame for a call to fn with numArgs arguments. The new
// frame links to the current top frame; the first frame of a segment links to
// the segment's origin frame.
func (c *Context) Push(fn frame.Func, numArgs uint32) (*frame.Frame, error) {
	if c.fp+1 >= c.maxDepth {
		return nil, fmt.Errorf("%w: depth %d", ErrStackOverflow, c.maxDepth)
	}
	callerLink := c.originLink
	if top := c.Top(); top != nil {
		callerLink = top.Addr()
	}
	c.fp++
	f := &c.frames[c.fp]
	f.Init(fn, callerLink, numArgs)
	c.logger.Trace().
		Str("fn", fn.Name()).
		Uint32("num_args", numArgs).
		Int("depth", c.Depth()).
		Stringer("caller", callerLink).
		Msg("push")
	c.observer.OnPush(PushEvent{
		Context:      c.id,
		FunctionName: fn.Name(),
		NumArgs:      numArgs,
		Depth:        c.Depth(),
	})
	return f, nil
}

// Pop tears down the top frame at a normal return.
func (c *Context) Pop() error {
	f := c.Top()
	if f == nil {
		return ErrStackEmpty
	}
	name := f.Func().Name()
	c.teardown()
	c.logger.Trace().Str("fn", name).Int("depth", c.Depth()).Msg("pop")
	c.observer.OnPop(PopEvent{Context: c.id, FunctionName: name, Depth: c.Depth()})
	return nil
}

func (c *Context) teardown() {
	f := &c.frames[c.fp]
	addr := f.Addr()
	c.releaseVarEnv(c.fp)
	f.Teardown()
	c.fp--
	c.orphanSegments(addr)
}

// Close unwinds c and releases its region from the registry. Segments
// entered from c's frames are left without a caller. Closing a context twice
// returns ErrUnknownContext.
func (c *Context) Close() error {
	c.Unwind()
	if err := c.registry.Release(c); err != nil {
		return err
	}
	if c.origin != nil {
		c.origin.forgetSegment(c)
	}
	c.logger.Debug().Msg("execution context closed")
	return nil
}

// CallerFrame returns the caller of f and the context it lives in. The
// caller is looked up in c and then in each origin context in turn, so a
// segment frame resolves against the context it was entered from rather than
// the one currently running. A link to a frame that has since returned
// resolves to no caller.
func (c *Context) CallerFrame(f *frame.Frame) (*frame.Frame, *Context) {
	link := f.CallerLink()
	for ctx := c; ctx != nil; ctx = ctx.origin {
		if !ctx.bounds.Contains(link) {
			continue
		}
		if !ctx.isLive(link) {
			return nil, nil
		}
		return f.CallerFrame(ctx), ctx
	}
	return nil, nil
}

// Walk calls fn for each frame of the logical call chain, starting at the top
// of c and following caller links into origin contexts. It stops when fn
// returns false.
func (c *Context) Walk(fn func(f *frame.Frame, owner *Context) bool) {
	f, owner := c.Top(), c
	if f == nil {
		if c.origin == nil || !c.origin.isLive(c.originLink) {
			return
		}
		f, owner = c.origin.FrameAt(c.originLink), c.origin
	}
	for f != nil {
		if !fn(f, owner) {
			return
		}
		f, owner = owner.CallerFrame(f)
	}
}

// Backtrace returns the function names of the logical call chain, innermost
// first.
func (c *Context) Backtrace() []string {
	var names []string
	c.Walk(func(f *frame.Frame, _ *Context) bool {
		names = append(names, f.Func().Name())
		return true
	})
	return names
}

func (c *Context) String() string {
	return fmt.Sprintf("Context(%s %s depth=%d)", c.id, c.bounds, c.Depth())
}
