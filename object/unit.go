package object

// Unit is a compilation unit: the bytecode produced from one source file.
type Unit struct {
	path string
	addr Addr
}

// NewUnit allocates a unit for the given source path.
func NewUnit(h *Heap, path string) *Unit {
	u := &Unit{path: path}
	u.addr = h.Alloc(u)
	return u
}

func (u *Unit) Path() string { return u.path }

func (u *Unit) Addr() Addr { return u.addr }
