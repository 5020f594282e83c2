package frame

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/actrec/object"
)

// Offsets of each field in the frame image. Generated code addresses these
// fields directly, so changing any of them breaks code already emitted.
const (
	WordSize = 8

	CallerLinkOffset      = 0
	FuncOffset            = 8
	NumArgsAndFlagsOffset = 16
	ThisOrClassOffset     = 24
	VarEnvOffset          = 32

	// Size is the size of a frame image in bytes.
	Size = 40
)

// Field describes one slot of the frame image.
type Field struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Doc    string `json:"doc"`
}

// BitField describes a sub-field of the packed args/flags word.
type BitField struct {
	Name  string `json:"name"`
	Shift int    `json:"shift"`
	Width int    `json:"width"`
	Mask  uint32 `json:"mask"`
}

// Fields returns the image layout in offset order.
func Fields() []Field {
	return []Field{
		{"callerLink", CallerLinkOffset, WordSize, "caller frame address, outside the stack region when there is none"},
		{"func", FuncOffset, WordSize, "function descriptor address"},
		{"numArgsAndFlags", NumArgsAndFlagsOffset, 4, "argument count and flags, upper 4 bytes zero"},
		{"thisOrClass", ThisOrClassOffset, WordSize, "instance, or class with the low bit set, or null"},
		{"varEnv", VarEnvOffset, WordSize, "dynamic scope address or null"},
	}
}

// BitFields returns the sub-fields of the packed args/flags word.
func BitFields() []BitField {
	return []BitField{
		{"numArgs", 0, NumArgsBits, NumArgsMask},
		{"localsDecRefd", 28, 1, uint32(LocalsDecRefd)},
		{"reserved", 29, 1, 1 << 29},
		{"executionMode", 30, 2, uint32(ExecutionModeMask)},
	}
}

// Image is the binary form of a frame as generated code sees it. Words are
// little-endian.
type Image [Size]byte

// Image returns the binary form of f.
func (f *Frame) Image() Image {
	var img Image
	var fn object.Addr
	if f.fn != nil {
		fn = f.fn.Addr()
	}
	img.putWord(CallerLinkOffset, f.callerLink)
	img.putWord(FuncOffset, fn)
	binary.LittleEndian.PutUint32(img[NumArgsAndFlagsOffset:], f.numArgsAndFlags)
	img.putWord(ThisOrClassOffset, f.thisOrClass)
	img.putWord(VarEnvOffset, f.varEnvSlot())
	return img
}

// ParseImage copies b into an Image.
func ParseImage(b []byte) (Image, error) {
	var img Image
	if len(b) != Size {
		return img, fmt.Errorf("frame image must be %d bytes, got %d", Size, len(b))
	}
	copy(img[:], b)
	if pad := binary.LittleEndian.Uint32(img[NumArgsAndFlagsOffset+4:]); pad != 0 {
		return img, fmt.Errorf("frame image has non-zero padding 0x%x after numArgsAndFlags", pad)
	}
	return img, nil
}

func (img *Image) putWord(offset int, addr object.Addr) {
	binary.LittleEndian.PutUint64(img[offset:], uint64(addr))
}

func (img Image) word(offset int) object.Addr {
	return object.Addr(binary.LittleEndian.Uint64(img[offset:]))
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (img Image) MarshalBinary() ([]byte, error) {
	b := make([]byte, Size)
	copy(b, img[:])
	return b, nil
}

func (img Image) CallerLink() object.Addr { return img.word(CallerLinkOffset) }

func (img Image) FuncAddr() object.Addr { return img.word(FuncOffset) }

func (img Image) NumArgsAndFlags() uint32 {
	return binary.LittleEndian.Uint32(img[NumArgsAndFlagsOffset:])
}

func (img Image) NumArgs() uint32 {
	n, _ := DecodeNumArgsAndFlags(img.NumArgsAndFlags())
	return n
}

func (img Image) Flags() Flags {
	_, fl := DecodeNumArgsAndFlags(img.NumArgsAndFlags())
	return fl
}

func (img Image) ThisOrClass() object.Addr { return img.word(ThisOrClassOffset) }

// CallContext decodes the call-context slot. A trashed slot decodes as an
// instance at TrashedThisSlot.
func (img Image) CallContext() CallContext {
	return DecodeCallContext(img.ThisOrClass())
}

func (img Image) VarEnvAddr() object.Addr { return img.word(VarEnvOffset) }

func (img Image) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "callerLink=%s func=%s numArgs=%d flags=%s",
		img.CallerLink(), img.FuncAddr(), img.NumArgs(), img.Flags())
	switch slot := img.ThisOrClass(); {
	case slot == TrashedThisSlot:
		sb.WriteString(" context=trashed")
	default:
		cc := img.CallContext()
		if cc.Kind == Empty {
			sb.WriteString(" context=empty")
		} else {
			fmt.Fprintf(&sb, " context=%s@%s", cc.Kind, cc.Addr)
		}
	}
	switch env := img.VarEnvAddr(); {
	case env == TrashedVarEnvSlot:
		sb.WriteString(" varEnv=trashed")
	case env.IsNull():
		sb.WriteString(" varEnv=none")
	default:
		fmt.Fprintf(&sb, " varEnv=%s", env)
	}
	return sb.String()
}
