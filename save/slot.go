package save

import (
	"fmt"

	"github.com/eldensave/eldensave/binio"
	"github.com/eldensave/eldensave/eldenerr"
	"github.com/eldensave/eldensave/eventflags"
	"github.com/eldensave/eldensave/log"
)

// PayloadSize is the fixed size of a slot's payload region, not
// counting the 16-byte MD5 prefix present on PC.
const PayloadSize = 0x280000

// headerPadSize is the fixed pad immediately following map_id.
const headerPadSize = 24

// SlotOffsets records the byte offset, relative to the start of the
// slot payload, of every substructure the corruption fixers and
// repair-driver primitives need to rewrite in place. These are
// recorded by the decoder before each corresponding sub-read and are
// the sole mechanism writeback uses — there is no "re-encode the
// whole slot" path.
type SlotOffsets struct {
	Player           int
	Horse            int
	Weather          int
	Time             int
	SteamID          int
	EventFlags       int
	DLC              int
	Coordinates      int
	Gestures         int
	InventoryHeld    int
	InventoryStorage int
	FaceData         int
	Equipped         int
}

// Slot is a single character record at a fixed index 0..9. A zero
// Version marks an empty slot.
type Slot struct {
	Index   int
	Version uint32
	MapID   MapId
	GaitemMap []Gaitem

	Player PlayerGameData

	TempSpawnPointEntityID uint32
	HasTempSpawnPoint      bool
	GameMan0xCB3           byte
	HasGameMan0xCB3        bool

	SPEffects []SPEffect

	InventoryHeld    Inventory
	InventoryStorage Inventory
	Equipped         EquippedLoadout

	FaceData []byte // opaque, 303 B, preserved verbatim

	Gestures []uint32

	UnlockedRegions []byte // opaque

	Horse RideGameData

	TotalDeathsCount     uint32
	CharacterType        uint32
	LastRestedGrace      uint32
	InGameCountdownTimer uint32

	EventFlagsBitmap   []byte // 0x1BF99F bytes
	EventFlagsTerm     byte
	EventFlagsTrailer  [16]byte

	WorldGeometry []byte // opaque

	Coordinates            FloatVector3
	SpawnPointEntityID     uint32

	Weather WorldAreaWeather
	Time    WorldAreaTime

	BaseVersion uint32
	SteamID     uint64

	DLC DLC

	PlayerDataHash []byte // opaque

	Rest []byte // trailing bytes not recognized by the declared field list

	Offsets SlotOffsets
}

// IsEmpty reports whether this slot holds no character (Version == 0).
func (s *Slot) IsEmpty() bool {
	return s.Version == 0
}

func gaitemMapLength(version uint32) int {
	if version > 81 {
		return 5120
	}
	return 5118
}

// DecodeSlot reads a full slot payload (exactly PayloadSize bytes)
// from raw[payloadStart:payloadStart+PayloadSize] and returns the
// parsed Slot with its offset map populated. On any error the caller
// (the container codec) is expected to mark the slot empty and
// continue at the next slot boundary rather than abort the whole file.
func DecodeSlot(index int, raw []byte, payloadStart int) (Slot, error) {
	payload := raw[payloadStart : payloadStart+PayloadSize]
	r := binio.NewReader(payload)

	s := Slot{Index: index}

	version, err := r.U32()
	if err != nil {
		return s, err
	}
	s.Version = version
	if version == 0 {
		s.Rest, _ = r.Bytes(r.Remaining())
		return s, nil
	}

	mapIDBytes, err := r.Bytes(4)
	if err != nil {
		return s, err
	}
	copy(s.MapID[:], mapIDBytes)

	r.Skip(headerPadSize)

	gaitemLen := gaitemMapLength(version)
	s.GaitemMap, err = decodeGaitemMap(r, gaitemLen)
	if err != nil {
		return s, fmt.Errorf("slot %d: gaitem_map: %w", index, err)
	}

	s.Offsets.Player = r.Pos()
	if err := decodePlayerInto(r, &s.Player); err != nil {
		return s, fmt.Errorf("slot %d: player: %w", index, err)
	}

	s.SPEffects = make([]SPEffect, spEffectCount)
	for i := range s.SPEffects {
		id, err := r.I32()
		if err != nil {
			return s, err
		}
		dur, err := r.F32()
		if err != nil {
			return s, err
		}
		s.SPEffects[i] = SPEffect{EffectID: id, Duration: dur}
	}

	s.Offsets.InventoryHeld = r.Pos()
	s.InventoryHeld, err = decodeInventory(r, inventoryHeldCommonCap, inventoryHeldKeyCap)
	if err != nil {
		return s, fmt.Errorf("slot %d: inventory_held: %w", index, err)
	}

	s.Offsets.Equipped = r.Pos()
	if err := decodeEquippedInto(r, &s.Equipped); err != nil {
		return s, fmt.Errorf("slot %d: equipped: %w", index, err)
	}

	s.Offsets.FaceData = r.Pos()
	s.FaceData, err = r.Bytes(faceDataInSlotSize)
	if err != nil {
		return s, err
	}

	s.Offsets.InventoryStorage = r.Pos()
	s.InventoryStorage, err = decodeInventory(r, inventoryStorageCommonCap, inventoryStorageKeyCap)
	if err != nil {
		return s, fmt.Errorf("slot %d: inventory_storage_box: %w", index, err)
	}

	s.Offsets.Gestures = r.Pos()
	s.Gestures, err = decodeEquippedList(r, GestureCount)
	if err != nil {
		return s, err
	}

	s.UnlockedRegions, err = r.Bytes(unlockedRegionsSize)
	if err != nil {
		return s, err
	}

	s.Offsets.Horse = r.Pos()
	hp, err := r.U32()
	if err != nil {
		return s, err
	}
	state, err := r.U32()
	if err != nil {
		return s, err
	}
	s.Horse = RideGameData{HP: hp, State: RideState(state)}

	s.TotalDeathsCount, err = r.U32()
	if err != nil {
		return s, err
	}
	s.CharacterType, err = r.U32()
	if err != nil {
		return s, err
	}
	s.LastRestedGrace, err = r.U32()
	if err != nil {
		return s, err
	}
	s.InGameCountdownTimer, err = r.U32()
	if err != nil {
		return s, err
	}

	s.Offsets.EventFlags = r.Pos()
	s.EventFlagsBitmap, err = r.Bytes(eventflags.Size)
	if err != nil {
		return s, err
	}
	s.EventFlagsTerm, err = r.U8()
	if err != nil {
		return s, err
	}
	trailer, err := r.Bytes(16)
	if err != nil {
		return s, err
	}
	copy(s.EventFlagsTrailer[:], trailer)

	s.WorldGeometry, err = r.Bytes(worldGeometrySize)
	if err != nil {
		return s, err
	}

	s.Offsets.Coordinates = r.Pos()
	x, err := r.F32()
	if err != nil {
		return s, err
	}
	y, err := r.F32()
	if err != nil {
		return s, err
	}
	z, err := r.F32()
	if err != nil {
		return s, err
	}
	s.Coordinates = FloatVector3{X: x, Y: y, Z: z}

	s.SpawnPointEntityID, err = r.U32()
	if err != nil {
		return s, err
	}

	if version >= 65 {
		s.HasTempSpawnPoint = true
		s.TempSpawnPointEntityID, err = r.U32()
		if err != nil {
			return s, err
		}
	}
	if version >= 66 {
		s.HasGameMan0xCB3 = true
		s.GameMan0xCB3, err = r.U8()
		if err != nil {
			return s, err
		}
	}

	s.Offsets.Weather = r.Pos()
	timer, err := r.U32()
	if err != nil {
		return s, err
	}
	areaID, err := r.U8()
	if err != nil {
		return s, err
	}
	r.Skip(3)
	s.Weather = WorldAreaWeather{Timer: timer, AreaID: areaID}

	s.Offsets.Time = r.Pos()
	hour, err := r.U8()
	if err != nil {
		return s, err
	}
	minute, err := r.U8()
	if err != nil {
		return s, err
	}
	second, err := r.U8()
	if err != nil {
		return s, err
	}
	s.Time = WorldAreaTime{Hour: hour, Minute: minute, Second: second}

	s.BaseVersion, err = r.U32()
	if err != nil {
		return s, err
	}

	s.Offsets.SteamID = r.Pos()
	s.SteamID, err = r.U64()
	if err != nil {
		return s, err
	}

	s.Offsets.DLC = r.Pos()
	dlcBytes, err := r.Bytes(DLCSize)
	if err != nil {
		return s, err
	}
	s.DLC = decodeDLC(dlcBytes)

	s.PlayerDataHash, err = r.Bytes(playerDataHashSize)
	if err != nil {
		return s, err
	}

	consumed := r.Pos()
	if consumed < PayloadSize {
		s.Rest, _ = r.Bytes(PayloadSize - consumed)
	} else if consumed > PayloadSize {
		log.Warn("slot field codec overran payload size",
			log.F("slot", index), log.F("consumed", consumed), log.F("payload_size", PayloadSize))
	}

	return s, nil
}

func decodeDLC(b []byte) DLC {
	var d DLC
	d.EnteredFlag = b[0]
	d.unknown1 = b[1]
	d.unknown2 = b[2]
	copy(d.reserved[:], b[3:DLCSize])
	return d
}

func encodeDLC(d DLC) []byte {
	out := make([]byte, DLCSize)
	out[0] = d.EnteredFlag
	out[1] = d.unknown1
	out[2] = d.unknown2
	copy(out[3:], d.reserved[:])
	return out
}

func decodePlayerInto(r *binio.Reader, p *PlayerGameData) error {
	name, err := r.WString(playerNameCapacityBytes)
	if err != nil {
		return err
	}
	p.Name = name

	fields := []*uint32{
		&p.Level, &p.Vigor, &p.Mind, &p.Endurance, &p.Strength,
		&p.Dexterity, &p.Intelligence, &p.Faith, &p.Arcane,
		&p.HPBase, &p.FPBase, &p.StaminaBase,
	}
	for _, f := range fields {
		v, err := r.U32()
		if err != nil {
			return err
		}
		*f = v
	}

	p.Runes, err = r.U64()
	if err != nil {
		return err
	}

	bfields := []*byte{&p.Archetype, &p.Gender, &p.Voice, &p.Gift}
	for _, f := range bfields {
		v, err := r.U8()
		if err != nil {
			return err
		}
		*f = v
	}

	ufields := []*uint32{&p.FlaskMaxHP, &p.FlaskMaxFP, &p.ExtraTalismanSlots, &p.SummonSpiritLevel}
	for _, f := range ufields {
		v, err := r.U32()
		if err != nil {
			return err
		}
		*f = v
	}

	reserved, err := r.Bytes(len(p.reserved))
	if err != nil {
		return err
	}
	copy(p.reserved[:], reserved)
	return nil
}

// EncodePlayer serializes p to its fixed PlayerGameDataSize wire form.
// It returns an *eldenerr.InternalLayoutError if the produced buffer
// does not match PlayerGameDataSize exactly.
func EncodePlayer(p PlayerGameData) ([]byte, error) {
	out := make([]byte, PlayerGameDataSize)
	w := binio.NewWriter(out)
	w.PutWString(p.Name, playerNameCapacityBytes)

	for _, v := range []uint32{
		p.Level, p.Vigor, p.Mind, p.Endurance, p.Strength,
		p.Dexterity, p.Intelligence, p.Faith, p.Arcane,
		p.HPBase, p.FPBase, p.StaminaBase,
	} {
		w.PutU32(v)
	}
	w.PutU64(p.Runes)
	for _, b := range []byte{p.Archetype, p.Gender, p.Voice, p.Gift} {
		w.PutU8(b)
	}
	for _, v := range []uint32{p.FlaskMaxHP, p.FlaskMaxFP, p.ExtraTalismanSlots, p.SummonSpiritLevel} {
		w.PutU32(v)
	}
	w.PutBytes(p.reserved[:])

	if w.Pos() != PlayerGameDataSize {
		return nil, &eldenerr.InternalLayoutError{Structure: "PlayerGameData", Want: PlayerGameDataSize, Got: w.Pos()}
	}
	return out, nil
}

func decodeEquippedInto(r *binio.Reader, e *EquippedLoadout) error {
	var err error
	e.EquippedSpells, err = decodeEquippedList(r, equippedSpellsCap)
	if err != nil {
		return err
	}
	e.EquippedItems, err = decodeEquippedList(r, equippedItemsCap)
	if err != nil {
		return err
	}
	e.EquippedGestures, err = decodeEquippedList(r, equippedGesturesCap)
	if err != nil {
		return err
	}
	e.AcquiredProjectiles, err = decodeEquippedList(r, acquiredProjectilesCap)
	if err != nil {
		return err
	}
	e.EquippedArmamentsAndItems, err = decodeEquippedList(r, armamentsAndItemsCap)
	if err != nil {
		return err
	}
	e.EquippedPhysics, err = decodeEquippedList(r, equippedPhysicsCap)
	return err
}

func encodeEquipped(e EquippedLoadout) []byte {
	var out []byte
	out = append(out, encodeUint32List(e.EquippedSpells)...)
	out = append(out, encodeUint32List(e.EquippedItems)...)
	out = append(out, encodeUint32List(e.EquippedGestures)...)
	out = append(out, encodeUint32List(e.AcquiredProjectiles)...)
	out = append(out, encodeUint32List(e.EquippedArmamentsAndItems)...)
	out = append(out, encodeUint32List(e.EquippedPhysics)...)
	return out
}

// SortGestures re-sorts g ascending and pads/truncates it to exactly
// GestureCount entries, matching the on-disk contract: writing
// [3, 1, 2] must yield [1, 2, 3, 0, 0, ..., 0].
func SortGestures(g []uint32) []uint32 {
	active := make([]uint32, 0, len(g))
	for _, v := range g {
		if v != gestureEmptyA && v != gestureEmptyB {
			active = append(active, v)
		}
	}
	for i := 1; i < len(active); i++ {
		for j := i; j > 0 && active[j-1] > active[j]; j-- {
			active[j-1], active[j] = active[j], active[j-1]
		}
	}
	out := make([]uint32, GestureCount)
	copy(out, active)
	return out
}
