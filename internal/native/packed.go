package native

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Packed ABI structures. Field order is the wire order; encoding/binary writes
// them back to back with no alignment padding, in the host byte order.

// CreateParams is passed to C_CreateModel and C_CreateDiffraction.
type CreateParams struct {
	Size        int32
	ThreadCount int32
}

// ObjectNameLen is the fixed length of ObjectInfo.Name in UTF-16 units.
const ObjectNameLen = 64

// ObjectInfo is returned by C_ObjectCalled and C_GetObjectList.
type ObjectInfo struct {
	Handle uint64
	Type   int32
	Name   [ObjectNameLen]uint16
}

// ObjectName decodes the fixed-size name field.
func (o ObjectInfo) ObjectName() string { return fixedWide(o.Name[:]) }

// Period selects the time range of a result query.
type Period struct {
	Number int32
	Unused int32
	From   float64
	To     float64
}

// ObjectExtra locates a result on an object. NodeNum is 1-based.
type ObjectExtra struct {
	Size      int32
	NodeNum   int32
	ArcLength float64
	Point     int32
	Position  [3]float64
}

// DynamicsProgress is passed by pointer to the dynamics progress callback.
type DynamicsProgress struct {
	Time  float64
	Start float64
	Stop  float64
}

// TimeStatus is filled by C_GetSimulationTimeStatus.
type TimeStatus struct {
	Start   float64
	Stop    float64
	Current float64
}

// PackedSize returns the packed size of v in bytes.
func PackedSize(v any) int {
	return binary.Size(v)
}

func encodePacked(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, v); err != nil {
		return nil, fmt.Errorf("native: pack %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func decodePacked(b []byte, v any) error {
	if err := binary.Read(bytes.NewReader(b), binary.NativeEndian, v); err != nil {
		return fmt.Errorf("native: unpack %T: %w", v, err)
	}
	return nil
}

// ReadPacked decodes a packed struct from native memory at p into v, which
// must be a pointer to a fixed-size value.
func ReadPacked(p unsafe.Pointer, v any) error {
	n := binary.Size(v)
	if n < 0 {
		return fmt.Errorf("native: %T is not fixed-size", v)
	}
	return decodePacked(unsafe.Slice((*byte)(p), n), v)
}

// WritePacked encodes v into native memory at p. The caller guarantees the
// destination holds PackedSize(v) bytes.
func WritePacked(p unsafe.Pointer, v any) error {
	b, err := encodePacked(v)
	if err != nil {
		return err
	}
	copy(unsafe.Slice((*byte)(p), len(b)), b)
	return nil
}
