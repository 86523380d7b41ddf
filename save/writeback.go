package save

import "github.com/eldensave/eldensave/binio"

// writeAt overwrites raw[slotAbsOffset+relOffset : +len(blob)] with
// blob. This is the one primitive every mutator in this package goes
// through — the slot field codec's writeback protocol never
// re-serializes a whole slot, only the touched substructure.
func writeAt(raw []byte, slotAbsOffset, relOffset int, blob []byte) {
	copy(raw[slotAbsOffset+relOffset:slotAbsOffset+relOffset+len(blob)], blob)
}

func encodeRideGameData(r RideGameData) []byte {
	out := make([]byte, 8)
	w := binio.NewWriter(out)
	w.PutU32(r.HP)
	w.PutU32(uint32(r.State))
	return out
}

func encodeWorldAreaWeather(wa WorldAreaWeather) []byte {
	out := make([]byte, 8)
	w := binio.NewWriter(out)
	w.PutU32(wa.Timer)
	w.PutU8(wa.AreaID)
	w.PutBytes(make([]byte, 3))
	return out
}

func encodeWorldAreaTime(wt WorldAreaTime) []byte {
	return []byte{wt.Hour, wt.Minute, wt.Second}
}

func encodeFloatVector3(v FloatVector3) []byte {
	out := make([]byte, 12)
	w := binio.NewWriter(out)
	w.PutF32(v.X)
	w.PutF32(v.Y)
	w.PutF32(v.Z)
	return out
}

// writeHorse rewrites the whole RideGameData at its recorded offset,
// per R1's contract.
func (sv *Save) writeHorse(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.Horse, encodeRideGameData(s.Horse))
}

func (sv *Save) writeSteamID(slotIdx int) {
	s := &sv.Slots[slotIdx]
	out := make([]byte, 8)
	binio.NewWriter(out).PutU64(s.SteamID)
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.SteamID, out)
}

func (sv *Save) writeTime(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.Time, encodeWorldAreaTime(s.Time))
}

func (sv *Save) writeWeather(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.Weather, encodeWorldAreaWeather(s.Weather))
}

func (sv *Save) writeDLC(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.DLC, encodeDLC(s.DLC))
}

func (sv *Save) writeEventFlags(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.EventFlags, s.EventFlagsBitmap)
}

func (sv *Save) writeMapID(slotIdx int) {
	s := &sv.Slots[slotIdx]
	// map_id sits at slot_abs_offset + 4, immediately after the
	// 4-byte version field — not tracked via SlotOffsets since it is
	// always at this fixed position regardless of version.
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), 4, s.MapID[:])
}

func (sv *Save) writeCoordinates(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.Coordinates, encodeFloatVector3(s.Coordinates))
}

func (sv *Save) writeGestures(slotIdx int) {
	s := &sv.Slots[slotIdx]
	s.Gestures = SortGestures(s.Gestures)
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.Gestures, encodeUint32List(s.Gestures))
}

func (sv *Save) writeInventoryHeld(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.InventoryHeld, s.InventoryHeld.Encode())
}

func (sv *Save) writeInventoryStorage(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.InventoryStorage, s.InventoryStorage.Encode())
}

func (sv *Save) writeEquipped(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.Equipped, encodeEquipped(s.Equipped))
}

func (sv *Save) writeFaceData(slotIdx int) {
	s := &sv.Slots[slotIdx]
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.FaceData, s.FaceData)
}

// writePlayer rewrites the whole PlayerGameData at its recorded
// offset, returning an InternalLayoutError if encoding produced the
// wrong width.
func (sv *Save) writePlayer(slotIdx int) error {
	s := &sv.Slots[slotIdx]
	blob, err := EncodePlayer(s.Player)
	if err != nil {
		return err
	}
	writeAt(sv.raw, sv.slotAbsOffset(slotIdx), s.Offsets.Player, blob)
	return nil
}
