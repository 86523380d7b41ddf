// Package eventflags implements the event-flag bitmap codec: a single
// flat bitmap of in-game progression flags addressed indirectly
// through a precomputed block-id -> block-offset table, the same
// global-precomputed-table shape the teacher uses for its block-type
// and hull-name lookup tables.
package eventflags

import "github.com/eldensave/eldensave/eldenerr"

// Size is the length in bytes of the event-flag bitmap.
const Size = 0x1BF99F

const (
	flagDivisor = 1000
	blockSize   = 125
)

// Bitmap addresses individual bits inside a fixed Size-byte buffer
// through a BST. It never copies the underlying buffer: Get/Set
// operate directly on the bytes handed to NewBitmap, matching the
// slot field codec's "mutate in place, rewrite only the touched
// substructure" writeback discipline.
type Bitmap struct {
	bytes []byte
	bst   *BST
}

// NewBitmap wraps buf (which must be exactly Size bytes) with bst as
// its block-id -> block-offset table.
func NewBitmap(buf []byte, bst *BST) *Bitmap {
	return &Bitmap{bytes: buf, bst: bst}
}

// Bytes returns the underlying buffer.
func (b *Bitmap) Bytes() []byte { return b.bytes }

func (b *Bitmap) position(eventID int) (bytePos int, bitPos uint, err error) {
	block := eventID / flagDivisor
	index := eventID % flagDivisor

	blockOffset, ok := b.bst.Lookup(block)
	if !ok {
		return 0, 0, eldenerr.ErrUnknownFlag
	}

	bytePos = blockOffset*blockSize + index/8
	if bytePos < 0 || bytePos >= len(b.bytes) {
		return 0, 0, eldenerr.ErrOutOfRange
	}
	bitPos = uint(7 - (index % 8))
	return bytePos, bitPos, nil
}

// Get returns whether eventID's flag is set.
func (b *Bitmap) Get(eventID int) (bool, error) {
	bytePos, bitPos, err := b.position(eventID)
	if err != nil {
		return false, err
	}
	return (b.bytes[bytePos]>>bitPos)&1 == 1, nil
}

// Set sets or clears eventID's flag.
func (b *Bitmap) Set(eventID int, value bool) error {
	bytePos, bitPos, err := b.position(eventID)
	if err != nil {
		return err
	}
	if value {
		b.bytes[bytePos] |= 1 << bitPos
	} else {
		b.bytes[bytePos] &^= 1 << bitPos
	}
	return nil
}
