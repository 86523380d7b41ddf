package save

import (
	"github.com/eldensave/eldensave/checksum"
	"github.com/eldensave/eldensave/eldenerr"
)

// ActiveSlots returns the indices of every slot that holds a
// character, in ascending order.
func (sv *Save) ActiveSlots() []int {
	var out []int
	for i := range sv.Slots {
		if !sv.Slots[i].IsEmpty() {
			out = append(out, i)
		}
	}
	return out
}

// Slot returns a read-only view of slot i.
func (sv *Save) Slot(i int) (*Slot, error) {
	if i < 0 || i >= slotCount {
		return nil, eldenerr.ErrInvalidArgument
	}
	return &sv.Slots[i], nil
}

// SlotMut returns a mutable view of slot i, for use by fixers and
// repair-driver primitives that need to both edit the decoded struct
// and immediately write the change back via the slot's own writeXxx
// method.
func (sv *Save) SlotMut(i int) (*Slot, error) {
	if i < 0 || i >= slotCount {
		return nil, eldenerr.ErrInvalidArgument
	}
	if sv.Slots[i].IsEmpty() {
		return nil, eldenerr.ErrSlotEmpty
	}
	return &sv.Slots[i], nil
}

// checksumRegions builds the full region list RecalculateChecksums
// fans out over: one region per non-empty PC slot, plus the UserData10
// region. PS saves carry no per-region checksums, so the list is empty
// there and RecalculateChecksums is a no-op.
func (sv *Save) checksumRegions() []checksum.Region {
	if sv.IsPS {
		return nil
	}
	var regions []checksum.Region
	for i := range sv.Slots {
		if !sv.slotChecksumPresent[i] {
			continue
		}
		regions = append(regions, checksum.Region{
			PrefixOffset:  sv.slotOffset[i],
			PayloadOffset: sv.slotAbsOffset(i),
			PayloadLen:    PayloadSize,
		})
	}
	if sv.commonHasChecksum {
		regions = append(regions, checksum.Region{
			PrefixOffset:  sv.commonOffset,
			PayloadOffset: sv.commonOffset + checksum.Size,
			PayloadLen:    userData10PayloadSize,
		})
	}
	return regions
}

// RecalculateChecksums recomputes and overwrites every MD5 prefix the
// container codec tracked, one goroutine per disjoint region via
// checksum.RefreshAll — the file's only concurrency point. Every
// mutating facade method (FixCharacter, ImportPreset's callers, the
// teleport and DLC-escape primitives) is expected to call this before
// ToFile.
func (sv *Save) RecalculateChecksums() error {
	return checksum.RefreshAll(sv.raw, sv.checksumRegions())
}
