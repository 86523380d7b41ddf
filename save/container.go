// Package save implements the container codec, the slot and
// UserData10 field codecs, the corruption detectors/fixers, the
// repair-driver primitives, and the Save facade that ties them
// together. These subsystems are kept in one package deliberately:
// the spec describes them as tightly coupled (every repair writes
// back into the same mutable buffer the codec parsed from), which in
// Go terms means they share concrete types rather than talk through
// narrow interfaces across a package boundary — the same shape the
// teacher uses for its blocks package, where many structurally
// distinct block types still live together because parser/filedata.go
// must construct and dispatch on all of them interchangeably.
package save

import (
	"bytes"
	"fmt"

	"github.com/eldensave/eldensave/checksum"
	"github.com/eldensave/eldensave/eldenerr"
	"github.com/eldensave/eldensave/log"
	"github.com/natefinch/atomic"
)

const (
	headerSizePC = 0x2FC
	headerSizePS = 0x6C

	slotCount = 10

	userData10PayloadSize = 0x60000
	userData11Size        = 0x240010
)

var (
	magicBND4 = []byte("BND4")
	magicSL2  = []byte("SL2\x00")
	magicPS   = []byte{0xCB, 0x01, 0x9C, 0x2C}
)

// Save is the top-level aggregate: it owns the complete file image
// (raw) and the parsed view over it. raw is the single source of
// truth for writeback — every mutation goes through it via the
// recorded offset maps in SlotOffsets and the UserData10 preset
// offsets.
type Save struct {
	raw    []byte
	IsPS   bool
	Magic  [4]byte
	Header []byte

	Slots  [slotCount]Slot
	slotOffset [slotCount]int // absolute offset of each slot's start
	slotChecksumPresent [slotCount]bool

	Common           UserData10
	commonOffset     int // absolute offset of UserData10's start
	commonHasChecksum bool

	UserData11 []byte
}

// slotAbsOffset returns the absolute file offset of slotIdx's payload
// start (i.e. immediately after its 16-byte MD5 prefix on PC).
func (sv *Save) slotAbsOffset(slotIdx int) int {
	off := sv.slotOffset[slotIdx]
	if !sv.IsPS {
		off += checksum.Size
	}
	return off
}

// detectPlatform classifies the magic bytes. Returns isPS and an
// error if the magic matches no known platform.
func detectPlatform(magic []byte) (isPS bool, err error) {
	switch {
	case bytes.Equal(magic, magicBND4), bytes.Equal(magic, magicSL2):
		return false, nil
	case bytes.Equal(magic, magicPS):
		return true, nil
	default:
		return false, eldenerr.ErrInvalidMagic
	}
}

// requireLen returns eldenerr.ErrTruncated if raw is too short to hold
// [pos, pos+n).
func requireLen(raw []byte, pos, n int) error {
	if n < 0 || pos+n > len(raw) {
		return eldenerr.ErrTruncated
	}
	return nil
}

// Load parses raw into a Save. raw is retained by reference (not
// copied) since it is the single writeback target for the lifetime
// of the returned Save. Fields that alias raw (Header, UserData11) are
// sub-slices, not copies, consistent with the container codec's
// restartable-at-slot-boundary design: a corrupt slot never prevents
// the remaining slots, UserData10, or UserData11 from parsing.
func Load(raw []byte) (*Save, error) {
	sv := &Save{raw: raw}

	if err := requireLen(raw, 0, 4); err != nil {
		return nil, err
	}
	copy(sv.Magic[:], raw[0:4])

	var err error
	sv.IsPS, err = detectPlatform(raw[0:4])
	if err != nil {
		return nil, err
	}

	pos := 4
	headerSize := headerSizePC
	if sv.IsPS {
		headerSize = headerSizePS
	}
	if err := requireLen(raw, pos, headerSize); err != nil {
		return nil, err
	}
	sv.Header = raw[pos : pos+headerSize]
	pos += headerSize

	for i := 0; i < slotCount; i++ {
		slotStart := pos
		sv.slotOffset[i] = slotStart

		if !sv.IsPS {
			if err := requireLen(raw, pos, checksum.Size); err != nil {
				return nil, err
			}
			prefix := raw[pos : pos+checksum.Size]
			if allZero(prefix) {
				sv.Slots[i] = Slot{Index: i}
				pos = slotStart + checksum.Size + PayloadSize
				continue
			}
			sv.slotChecksumPresent[i] = true
			pos += checksum.Size
		}

		payloadStart := pos
		if err := requireLen(raw, payloadStart, PayloadSize); err != nil {
			return nil, err
		}
		slot, err := DecodeSlot(i, raw, payloadStart)
		if err != nil {
			log.Warn("recoverable slot decode failure, marking slot empty",
				log.F("slot", i), log.F("error", err.Error()))
			slot = Slot{Index: i}
			sv.slotChecksumPresent[i] = false
		}
		sv.Slots[i] = slot

		pos = payloadStart + PayloadSize
	}

	sv.commonOffset = pos
	if !sv.IsPS {
		if err := requireLen(raw, pos, checksum.Size); err != nil {
			return nil, err
		}
		sv.commonHasChecksum = true
		pos += checksum.Size
	}
	commonPayloadStart := pos
	if err := requireLen(raw, commonPayloadStart, userData10PayloadSize); err != nil {
		return nil, err
	}
	sv.Common, err = DecodeUserData10(raw, commonPayloadStart)
	if err != nil {
		return nil, fmt.Errorf("user_data_10: %w", err)
	}
	pos = commonPayloadStart + userData10PayloadSize

	if !sv.IsPS {
		if err := requireLen(raw, pos, checksum.Size); err != nil {
			return nil, err
		}
		pos += checksum.Size
	}
	if err := requireLen(raw, pos, userData11Size); err != nil {
		return nil, err
	}
	sv.UserData11 = raw[pos : pos+userData11Size]

	return sv, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// ToFile writes raw verbatim to path using an atomic rename so a crash
// mid-write never leaves path truncated or half-written.
func (sv *Save) ToFile(path string) error {
	return atomic.WriteFile(path, bytes.NewReader(sv.raw))
}

// Raw returns the complete underlying file image. Callers must not
// retain the returned slice across a mutation that could reallocate
// it — Save never reallocates raw itself, so this is safe as long as
// the Save outlives the slice's use.
func (sv *Save) Raw() []byte {
	return sv.raw
}
