package object

// Class is a type descriptor. A static method call binds one as the call
// context of its frame.
type Class struct {
	name   string
	parent *Class
	unit   *Unit
	addr   Addr
}

// NewClass allocates a class descriptor. The parent may be nil.
func NewClass(h *Heap, name string, parent *Class, unit *Unit) *Class {
	c := &Class{name: name, parent: parent, unit: unit}
	c.addr = h.Alloc(c)
	return c
}

func (c *Class) Name() string { return c.name }

func (c *Class) Parent() *Class { return c.parent }

func (c *Class) Unit() *Unit { return c.unit }

func (c *Class) Addr() Addr { return c.addr }

// IsSubclassOf reports whether c is other or inherits from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Instance is a live object. An instance method call binds one as the call
// context of its frame.
type Instance struct {
	class *Class
	props map[string]any
	addr  Addr
}

// NewInstance allocates an instance of class c.
func NewInstance(h *Heap, c *Class) *Instance {
	inst := &Instance{class: c, props: map[string]any{}}
	inst.addr = h.Alloc(inst)
	return inst
}

func (i *Instance) Class() *Class { return i.class }

func (i *Instance) Addr() Addr { return i.addr }

// Get returns the named property.
func (i *Instance) Get(name string) (any, bool) {
	v, ok := i.props[name]
	return v, ok
}

// Set assigns the named property.
func (i *Instance) Set(name string, value any) {
	i.props[name] = value
}
