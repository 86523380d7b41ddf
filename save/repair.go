package save

import "github.com/eldensave/eldensave/eldenerr"

// TeleportDestination names one of the built-in warp targets a caller
// can send a character to without hand-assembling a MapId.
type TeleportDestination string

const (
	TeleportLimgrave   TeleportDestination = "limgrave"
	TeleportRoundtable TeleportDestination = "roundtable"
	TeleportLiurnia    TeleportDestination = "liurnia"
	TeleportAltus      TeleportDestination = "altus"
)

// teleportMapIDs mirrors the source of record's TELEPORT_LOCATIONS
// table: the four named destinations' literal map_id byte quadruples.
var teleportMapIDs = map[TeleportDestination]MapId{
	TeleportLimgrave:   {0, 36, 42, 60},
	TeleportRoundtable: {0, 0, 10, 11},
	TeleportLiurnia:    {0, 37, 44, 60},
	TeleportAltus:      {0, 38, 46, 60},
}

// Teleport overwrites slotIdx's map_id with dest's map_id (R8). It
// never touches PlayerCoordinates — callers that also want the
// character's spawn position reset should follow with a direct
// mutation of Slot.Coordinates plus writeCoordinates, which this
// package exposes only internally since coordinates are addressed by
// raw FloatVector3 rather than a named destination table.
func (sv *Save) Teleport(slotIdx int, dest TeleportDestination) error {
	mapID, ok := teleportMapIDs[dest]
	if !ok {
		return eldenerr.ErrInvalidArgument
	}
	s, err := sv.SlotMut(slotIdx)
	if err != nil {
		return err
	}
	s.MapID = mapID
	sv.writeMapID(slotIdx)
	return nil
}

// DLCEscape composes Teleport with the DLC-flag fixer: it is the
// primitive for rescuing a character soft-locked inside Shadow of the
// Erdtree content by both relocating them to the base-game world and
// clearing the DLC entry flag that would otherwise route them straight
// back in.
func (sv *Save) DLCEscape(slotIdx int, dest TeleportDestination) (descriptions []string, err error) {
	if err := sv.Teleport(slotIdx, dest); err != nil {
		return nil, err
	}
	descriptions = append(descriptions, "Teleport: relocated to "+string(dest))

	result := dlcFlagFixer{}.Apply(sv, slotIdx)
	if result.Applied {
		descriptions = append(descriptions, "DLC flag: "+result.Description)
	}
	return descriptions, nil
}
