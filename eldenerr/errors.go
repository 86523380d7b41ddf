// Package eldenerr defines the sentinel error kinds shared across the
// eldensave codecs, following the sentinel-error style of
// blocks.ErrInvalidFileHeaderBlock and parser.ErrNoFileHeaderFound.
package eldenerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic means the leading magic bytes matched no known
	// platform.
	ErrInvalidMagic = errors.New("eldensave: invalid magic bytes")
	// ErrTruncated means a read ran past the end of the buffer.
	ErrTruncated = errors.New("eldensave: truncated read")
	// ErrUnknownFlag means an event id referenced a BST block absent
	// from the table.
	ErrUnknownFlag = errors.New("eldensave: unknown event-flag block")
	// ErrOutOfRange means a computed byte position fell outside the
	// bitmap.
	ErrOutOfRange = errors.New("eldensave: event-flag position out of range")
	// ErrMissingResource means eventflag_bst.txt was not found on any
	// search path.
	ErrMissingResource = errors.New("eldensave: missing resource")
	// ErrSlotEmpty means a mutation was attempted on an empty slot.
	ErrSlotEmpty = errors.New("eldensave: slot is empty")
	// ErrInvalidArgument means a caller-supplied argument (slot index,
	// teleport destination, ...) was invalid.
	ErrInvalidArgument = errors.New("eldensave: invalid argument")
)

// InternalLayoutError indicates a substructure's serialized width does
// not equal its declared constant — a codec bug, not a data problem.
// It carries the offending structure's name and the size mismatch so
// callers can log a precise diagnostic, mirroring
// parser.ErrMalformedBlock's Msg field.
type InternalLayoutError struct {
	Structure string
	Want, Got int
}

func (e *InternalLayoutError) Error() string {
	return fmt.Sprintf("eldensave: internal layout error in %s: want %d bytes, got %d", e.Structure, e.Want, e.Got)
}

// ErrInternalLayout is the sentinel target for errors.Is checks against
// any *InternalLayoutError.
var ErrInternalLayout = errors.New("eldensave: internal layout error")

// Is lets errors.Is(err, ErrInternalLayout) match any *InternalLayoutError.
func (e *InternalLayoutError) Is(target error) bool {
	return target == ErrInternalLayout
}
