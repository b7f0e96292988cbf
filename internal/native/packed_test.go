package native

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackedSizes(t *testing.T) {
	assert.Equal(t, 8, PackedSize(&CreateParams{}))
	assert.Equal(t, 8+4+2*ObjectNameLen, PackedSize(&ObjectInfo{}))
	assert.Equal(t, 24, PackedSize(&Period{}))
	assert.Equal(t, 44, PackedSize(&ObjectExtra{}))
	assert.Equal(t, 24, PackedSize(&DynamicsProgress{}))
	assert.Equal(t, 24, PackedSize(&TimeStatus{}))
}

func TestObjectExtraHasNoPadding(t *testing.T) {
	extra := ObjectExtra{Size: 44, NodeNum: 3, ArcLength: 1.5, Point: 7, Position: [3]float64{1, 2, 3}}
	buf, err := encodePacked(&extra)
	require.NoError(t, err)
	require.Len(t, buf, 44)

	assert.EqualValues(t, 44, binary.NativeEndian.Uint32(buf[0:]))
	assert.EqualValues(t, 3, binary.NativeEndian.Uint32(buf[4:]))
	assert.EqualValues(t, 7, binary.NativeEndian.Uint32(buf[16:]))

	var back ObjectExtra
	require.NoError(t, decodePacked(buf, &back))
	assert.Equal(t, extra, back)
}

func TestReadWritePacked(t *testing.T) {
	in := ObjectInfo{Handle: 0xdeadbeef, Type: 4}
	SetFixedWide(in.Name[:], "Line1")

	mem := make([]byte, PackedSize(&in))
	require.NoError(t, WritePacked(unsafe.Pointer(&mem[0]), &in))

	var out ObjectInfo
	require.NoError(t, ReadPacked(unsafe.Pointer(&mem[0]), &out))
	assert.Equal(t, in, out)
	assert.Equal(t, "Line1", out.ObjectName())
}

func TestDecodePackedShortBuffer(t *testing.T) {
	var p Period
	assert.Error(t, decodePacked(make([]byte, 10), &p))
}
