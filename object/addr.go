package object

import "fmt"

// Alignment is the alignment of every address handed out by a Heap. The low
// bits of an aligned address are always zero, which lets a frame use the
// lowest bit as a tag.
const Alignment = 16

// Addr is a raw address in the VM's address space.
type Addr uintptr

// Null is the zero address.
const Null Addr = 0

// IsAligned reports whether a is a multiple of Alignment.
func (a Addr) IsAligned() bool {
	return a%Alignment == 0
}

// IsNull reports whether a is the zero address.
func (a Addr) IsNull() bool {
	return a == Null
}

func (a Addr) String() string {
	return fmt.Sprintf("0x%x", uintptr(a))
}
