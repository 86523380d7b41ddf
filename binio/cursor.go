// Package binio provides little-endian binary primitives over a byte
// cursor, the foundation every codec in eldensave is built on.
package binio

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// ErrTruncated is returned whenever a read would run past the end of
// the underlying buffer.
var ErrTruncated = fmt.Errorf("binio: read past end of buffer")

// Reader is a cursor over a byte slice. It never copies the underlying
// slice; reads that return a []byte are sub-slices of the original
// buffer unless explicitly documented otherwise.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current absolute cursor position.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Seek moves the cursor to an absolute position.
func (r *Reader) Seek(pos int) {
	r.pos = pos
}

// Skip advances the cursor by n bytes without reading.
func (r *Reader) Skip(n int) {
	r.pos += n
}

func (r *Reader) require(n int) error {
	if n < 0 || r.pos+n > len(r.buf) {
		return ErrTruncated
	}
	return nil
}

// U8 reads a single byte.
func (r *Reader) U8() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// I32 reads a little-endian int32.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// F32 reads a little-endian IEEE-754 float32.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return float32FromBits(v), nil
}

// Bytes reads exactly n bytes and returns a fresh copy (never an alias
// of the underlying buffer, so callers may retain it past later writes
// to raw).
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// WString reads capacityBytes worth of UTF-16LE data and decodes it as
// a string, truncating at the first NUL code unit. The full capacity
// is always consumed regardless of where the NUL falls.
func (r *Reader) WString(capacityBytes int) (string, error) {
	raw, err := r.Bytes(capacityBytes)
	if err != nil {
		return "", err
	}
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		u := binary.LittleEndian.Uint16(raw[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// Writer writes little-endian binary primitives into a fixed-size byte
// slice. Unlike Reader, writes are infallible as long as the caller
// sized dst correctly up front — this mirrors the spec's "writing is
// infallible when the destination slice matches the operation width"
// rule, so Writer methods have no error return.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter wraps dst for sequential little-endian writes starting at
// offset 0.
func NewWriter(dst []byte) *Writer {
	return &Writer{buf: dst}
}

// Pos returns the current write cursor position.
func (w *Writer) Pos() int { return w.pos }

// Bytes returns the full backing slice written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// PutU8 writes a single byte.
func (w *Writer) PutU8(v byte) {
	w.buf[w.pos] = v
	w.pos++
}

// PutU16 writes a little-endian uint16.
func (w *Writer) PutU16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
}

// PutU32 writes a little-endian uint32.
func (w *Writer) PutU32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

// PutU64 writes a little-endian uint64.
func (w *Writer) PutU64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[w.pos:], v)
	w.pos += 8
}

// PutF32 writes a little-endian IEEE-754 float32.
func (w *Writer) PutF32(v float32) {
	w.PutU32(float32ToBits(v))
}

// PutBytes copies src verbatim into the destination, advancing the
// cursor by len(src).
func (w *Writer) PutBytes(src []byte) {
	copy(w.buf[w.pos:], src)
	w.pos += len(src)
}

// PutWString encodes s as UTF-16LE, NUL-terminates it, and zero-pads
// to capacityBytes. s must fit (including its terminator) within
// capacityBytes; callers are expected to have validated name lengths
// before reaching here, consistent with the wire format's fixed
// code-unit capacity.
func (w *Writer) PutWString(s string, capacityBytes int) {
	units := utf16.Encode([]rune(s))
	start := w.pos
	for _, u := range units {
		if w.pos-start+2 > capacityBytes {
			break
		}
		binary.LittleEndian.PutUint16(w.buf[w.pos:], u)
		w.pos += 2
	}
	for w.pos-start < capacityBytes {
		w.buf[w.pos] = 0
		w.pos++
	}
}
