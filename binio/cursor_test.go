package binio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderPrimitives(t *testing.T) {
	buf := []byte{0x01, 0x03, 0x04, 0xEF, 0xBE, 0xAD, 0xDE}
	r := NewReader(buf)

	b, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	u16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0403), u16)

	u32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	assert.Equal(t, 7, r.Pos())
	assert.Equal(t, 0, r.Remaining())
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.U32()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestWStringTruncatesAtNulAndConsumesFullCapacity(t *testing.T) {
	buf := make([]byte, 32)
	w := NewWriter(buf)
	w.PutWString("Tarnished", 32)

	r := NewReader(buf)
	s, err := r.WString(32)
	require.NoError(t, err)
	assert.Equal(t, "Tarnished", s)
	assert.Equal(t, 32, r.Pos())
}

func TestWStringRoundTripEmpty(t *testing.T) {
	buf := make([]byte, 8)
	w := NewWriter(buf)
	w.PutWString("", 8)

	r := NewReader(buf)
	s, err := r.WString(8)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestWriterBytesRoundTrip(t *testing.T) {
	dst := make([]byte, 4)
	w := NewWriter(dst)
	w.PutBytes([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, dst)
}

func TestFloat32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	w := NewWriter(buf)
	w.PutF32(3.5)

	r := NewReader(buf)
	v, err := r.F32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), v)
}
