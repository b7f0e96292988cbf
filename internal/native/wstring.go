package native

import (
	"errors"
	"strings"
	"unicode/utf16"
	"unsafe"
)

// ErrEmbeddedNUL is returned when a string cannot be represented as a
// NUL-terminated native string.
var ErrEmbeddedNUL = errors.New("native: string contains NUL")

// WideString encodes s as a NUL-terminated UTF-16 buffer and returns a pointer
// to its first element. The buffer is Go memory; it stays valid while the
// pointer is reachable.
func WideString(s string) (*uint16, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, ErrEmbeddedNUL
	}
	buf := utf16.Encode([]rune(s + "\x00"))
	return &buf[0], nil
}

// GoWideString decodes a NUL-terminated UTF-16 string. A nil pointer decodes
// to "".
func GoWideString(p *uint16) string {
	if p == nil {
		return ""
	}
	n := 0
	for ptr := unsafe.Pointer(p); *(*uint16)(ptr) != 0; n++ {
		ptr = unsafe.Add(ptr, 2)
	}
	return string(utf16.Decode(unsafe.Slice(p, n)))
}

// decodeWide decodes buf up to its first NUL.
func decodeWide(buf []uint16) string {
	for i, c := range buf {
		if c == 0 {
			return string(utf16.Decode(buf[:i]))
		}
	}
	return string(utf16.Decode(buf))
}

// decodeWideList splits a buffer of NUL-separated strings terminated by an
// empty string.
func decodeWideList(buf []uint16) []string {
	var out []string
	start := 0
	for i, c := range buf {
		if c != 0 {
			continue
		}
		if i == start {
			break
		}
		out = append(out, string(utf16.Decode(buf[start:i])))
		start = i + 1
	}
	return out
}

// EncodeWideList is the inverse of decodeWideList. In-process engines use it to
// answer list queries.
func EncodeWideList(items []string) []uint16 {
	var out []uint16
	for _, s := range items {
		out = append(out, utf16.Encode([]rune(s))...)
		out = append(out, 0)
	}
	return append(out, 0)
}

// EncodeWide returns s as UTF-16 followed by a NUL.
func EncodeWide(s string) []uint16 {
	return utf16.Encode([]rune(s + "\x00"))
}

// fixedWide decodes a fixed-size UTF-16 field from a packed struct.
func fixedWide(field []uint16) string {
	return decodeWide(field)
}

// SetFixedWide writes s into a fixed-size UTF-16 field, truncating to leave
// room for the terminator.
func SetFixedWide(field []uint16, s string) {
	enc := utf16.Encode([]rune(s))
	if len(enc) > len(field)-1 {
		enc = enc[:len(field)-1]
	}
	n := copy(field, enc)
	for i := n; i < len(field); i++ {
		field[i] = 0
	}
}
