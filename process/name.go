package process

import (
	"bytes"
	"fmt"
	"unicode/utf8"
	"unsafe"
)

// Char is the element type of a platform name buffer
type Char interface {
	~int8 | ~uint8
}

// DecodeError is returned when a name buffer does not hold valid UTF-8
type DecodeError struct {
	Offset int // index of the first byte that is not part of a valid sequence
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid UTF-8 name at byte %d", e.Offset)
}

// DecodeName validates b as UTF-8 and returns a string sharing b's memory.
// The result is only valid until b is modified. DecodeName does not stop at NUL;
// pass TrimNul(buf) for NUL-terminated buffers.
func DecodeName(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	if !utf8.Valid(b) {
		return "", &DecodeError{Offset: invalidOffset(b)}
	}
	return unsafe.String(unsafe.SliceData(b), len(b)), nil
}

// DecodeChars is DecodeName for signed or unsigned 8-bit buffers.
func DecodeChars[T Char](buf []T) (string, error) {
	if len(buf) == 0 {
		return "", nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(buf))), len(buf))
	return DecodeName(b)
}

// TrimNul returns buf up to its first NUL byte, or all of buf when it has none.
func TrimNul(buf []byte) []byte {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return buf[:i]
	}
	return buf
}

// ClearName zeroes the occupied prefix of a name buffer, up to its first NUL.
// A step is not required to terminate the name it writes, so a shorter name
// would otherwise run into the tail of the previous one.
func ClearName(buf []byte) {
	clear(TrimNul(buf))
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}
