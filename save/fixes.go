package save

import (
	"fmt"

	"github.com/eldensave/eldensave/eventflags"
)

// FixResult reports the outcome of one Fixer.Apply call, mirroring the
// original tool's FixResult dataclass: Applied forwards to a bool
// context, Description is a human-readable summary, and Details holds
// any per-sub-fix breakdown (the event-flag bundle uses this to list
// which of its several independent issues were corrected).
type FixResult struct {
	Applied     bool
	Description string
	Details     []string
}

// Fixer pairs a detector and an applier over a single slot, per the
// spec's (detect, apply) rule contract.
type Fixer interface {
	Name() string
	Detect(sv *Save, slotIdx int) bool
	Apply(sv *Save, slotIdx int) FixResult
}

// AllFixers lists every rule in the deterministic application order
// fix_character and the CLI's `fix` command both rely on: R1 -> R2 ->
// R3 -> R4 -> R7 -> R5 -> R6. Teleport (R8) is not in this list since
// it is never triggered by a detector — it is invoked directly by user
// choice, as a repair-driver primitive.
var AllFixers = []Fixer{
	torrentFixer{},
	steamIDSyncFixer{},
	timeFixer{},
	weatherFixer{},
	eventFlagsFixer{},
	dlcFlagFixer{},
	dlcGarbageFixer{},
}

type torrentFixer struct{}

func (torrentFixer) Name() string { return "Torrent" }

func (torrentFixer) Detect(sv *Save, slotIdx int) bool {
	s := &sv.Slots[slotIdx]
	return s.Horse.HP == 0 && s.Horse.State == RideStateActive
}

func (f torrentFixer) Apply(sv *Save, slotIdx int) FixResult {
	if !f.Detect(sv, slotIdx) {
		return FixResult{Description: "Torrent not in a soft-locked state"}
	}
	s := &sv.Slots[slotIdx]
	s.Horse.State = RideStateDead
	sv.writeHorse(slotIdx)
	return FixResult{Applied: true, Description: "Marked Torrent as dead instead of stuck active with 0 HP"}
}

type steamIDSyncFixer struct{}

func (steamIDSyncFixer) Name() string { return "SteamID sync" }

func (steamIDSyncFixer) Detect(sv *Save, slotIdx int) bool {
	s := &sv.Slots[slotIdx]
	common := sv.Common.SteamID
	return s.SteamID == 0 || (common != 0 && s.SteamID != common)
}

func (f steamIDSyncFixer) Apply(sv *Save, slotIdx int) FixResult {
	if !f.Detect(sv, slotIdx) {
		return FixResult{Description: "Slot SteamID already matches the save's"}
	}
	s := &sv.Slots[slotIdx]
	s.SteamID = sv.Common.SteamID
	sv.writeSteamID(slotIdx)
	return FixResult{Applied: true, Description: "Synced slot SteamID to the save's owner"}
}

type timeFixer struct{}

func (timeFixer) Name() string { return "Play time" }

func secondsToHMS(seconds uint32) (hour, minute, second byte) {
	return byte(seconds / 3600), byte((seconds % 3600) / 60), byte(seconds % 60)
}

func (timeFixer) Detect(sv *Save, slotIdx int) bool {
	s := &sv.Slots[slotIdx]
	if s.Time.Minute > 59 || s.Time.Second > 59 {
		return true
	}
	seconds := sv.Common.ProfileSummaries[slotIdx].SecondsPlayed
	h, m, sec := secondsToHMS(seconds)
	return s.Time.Hour != h || s.Time.Minute != m || s.Time.Second != sec
}

func (f timeFixer) Apply(sv *Save, slotIdx int) FixResult {
	if !f.Detect(sv, slotIdx) {
		return FixResult{Description: "Play time already consistent with seconds played"}
	}
	s := &sv.Slots[slotIdx]
	seconds := sv.Common.ProfileSummaries[slotIdx].SecondsPlayed
	h, m, sec := secondsToHMS(seconds)
	s.Time = WorldAreaTime{Hour: h, Minute: m, Second: sec}
	sv.writeTime(slotIdx)
	return FixResult{Applied: true, Description: "Recomputed hour/minute/second from seconds played"}
}

type weatherFixer struct{}

func (weatherFixer) Name() string { return "Weather" }

func (weatherFixer) Detect(sv *Save, slotIdx int) bool {
	s := &sv.Slots[slotIdx]
	if s.Weather.Timer > 100000 {
		return true
	}
	return s.Weather.AreaID == 0 && s.MapID != (MapId{0, 0, 0, 0})
}

func (f weatherFixer) Apply(sv *Save, slotIdx int) FixResult {
	if !f.Detect(sv, slotIdx) {
		return FixResult{Description: "Weather state already consistent"}
	}
	s := &sv.Slots[slotIdx]
	s.Weather.AreaID = s.MapID[3]
	sv.writeWeather(slotIdx)
	return FixResult{Applied: true, Description: "Reset weather area id from the slot's map id"}
}

type dlcFlagFixer struct{}

func (dlcFlagFixer) Name() string { return "DLC flag" }

func (dlcFlagFixer) Detect(sv *Save, slotIdx int) bool {
	return sv.Slots[slotIdx].DLC.EnteredFlag != 0
}

func (f dlcFlagFixer) Apply(sv *Save, slotIdx int) FixResult {
	if !f.Detect(sv, slotIdx) {
		return FixResult{Description: "DLC entry flag already clear"}
	}
	s := &sv.Slots[slotIdx]
	s.DLC.EnteredFlag = 0
	sv.writeDLC(slotIdx)
	return FixResult{Applied: true, Description: "Cleared the stray DLC entry flag"}
}

type dlcGarbageFixer struct{}

func (dlcGarbageFixer) Name() string { return "DLC garbage" }

func dlcReservedDirty(d DLC) bool {
	for _, b := range d.reserved {
		if b != 0 {
			return true
		}
	}
	return false
}

func (dlcGarbageFixer) Detect(sv *Save, slotIdx int) bool {
	return dlcReservedDirty(sv.Slots[slotIdx].DLC)
}

func (f dlcGarbageFixer) Apply(sv *Save, slotIdx int) FixResult {
	if !f.Detect(sv, slotIdx) {
		return FixResult{Description: "No garbage bytes in the DLC region"}
	}
	s := &sv.Slots[slotIdx]
	for i := range s.DLC.reserved {
		s.DLC.reserved[i] = 0
	}
	sv.writeDLC(slotIdx)
	return FixResult{Applied: true, Description: "Zeroed garbage bytes in the DLC region"}
}

// FixCharacter runs every fixer in AllFixers' declared order against
// slotIdx and returns whether any of them applied, plus one
// description per fixer that actually changed something, each followed
// by that fixer's Details lines (if any).
func (sv *Save) FixCharacter(slotIdx int) (applied bool, descriptions []string) {
	if slotIdx < 0 || slotIdx >= slotCount || sv.Slots[slotIdx].IsEmpty() {
		return false, nil
	}
	for _, fixer := range AllFixers {
		result := fixer.Apply(sv, slotIdx)
		if result.Applied {
			applied = true
			descriptions = append(descriptions, fmt.Sprintf("%s: %s", fixer.Name(), result.Description))
			descriptions = append(descriptions, result.Details...)
		}
	}
	return applied, descriptions
}

// eventFlagID is a plain integer event id; eventflags.Bitmap resolves
// it to a block and bit position through the BST, so the fixer never
// deals in block/offset pairs itself.
type eventFlagID = int

const ranniBlockingFlag eventFlagID = 1034500738

var ranniFlagsToEnable = []eventFlagID{
	1034509410, 1034509412, 1034500732, 1034500736, 1034505015,
	1034509361, 1034500715, 1034500710, 1034500700, 1034490701,
	1034490700, 1034509413, 1034509418, 1034509355, 1034509357,
	1034509358, 1034509205, 1045379208, 1034509305, 1034509306,
	1034509417, 1034500734, 1034509416, 1034500739, 1034500733,
	1034502610, 1034505002, 1034505003, 1034505004, 1034500716,
	1034503600,
}

const (
	flagMeteoriteGreen        eventFlagID = 310
	flagDefeatedRadahn        eventFlagID = 9130
	flagRadahnMapMarker       eventFlagID = 9417
	flagGraceRadahn           eventFlagID = 76422
	flagGraceWarDeadCatacombs eventFlagID = 73016

	flagMorgottDefeated      eventFlagID = 11000800
	flagMorgottThornsTouched eventFlagID = 11000500
	flagMorgottFogWall       eventFlagID = 11000501

	flagDefeatedRadagon       eventFlagID = 9123
	flagEndingCutscene        eventFlagID = 121
	flagGraceFracturedMarika  eventFlagID = 71900

	flagSpiritTreeBurning       eventFlagID = 330
	flagDefeatedDancingLion     eventFlagID = 9140
	flagSealingTreeRestedAfter  eventFlagID = 20010500
	flagGraceEnirIlimOuterWall  eventFlagID = 72012
)

type eventFlagsFixer struct{}

func (eventFlagsFixer) Name() string { return "Event flag corruption bundle" }

func bundleBitmap(s *Slot) (*eventflags.Bitmap, error) {
	bst, err := eventflags.LoadGlobal(eventflags.SearchPaths())
	if err != nil {
		return nil, err
	}
	return eventflags.NewBitmap(s.EventFlagsBitmap, bst), nil
}

func checkRanniSoftlock(bm *eventflags.Bitmap) bool {
	v, err := bm.Get(ranniBlockingFlag)
	return err == nil && v
}

func checkRadahnAliveWarp(bm *eventflags.Bitmap) bool {
	met, _ := bm.Get(flagMeteoriteGreen)
	defeated, _ := bm.Get(flagDefeatedRadahn)
	return met && !defeated
}

func checkRadahnDeadWarp(bm *eventflags.Bitmap) bool {
	met, _ := bm.Get(flagMeteoriteGreen)
	defeated, _ := bm.Get(flagDefeatedRadahn)
	grace, _ := bm.Get(flagGraceRadahn)
	catacombs, _ := bm.Get(flagGraceWarDeadCatacombs)
	return met && defeated && !(grace || catacombs)
}

func checkMorgottWarp(bm *eventflags.Bitmap) bool {
	defeated, _ := bm.Get(flagMorgottDefeated)
	thorns, _ := bm.Get(flagMorgottThornsTouched)
	fog, _ := bm.Get(flagMorgottFogWall)
	return defeated && !(thorns && fog)
}

func checkRadagonWarp(bm *eventflags.Bitmap) bool {
	defeated, _ := bm.Get(flagDefeatedRadagon)
	ending, _ := bm.Get(flagEndingCutscene)
	grace, _ := bm.Get(flagGraceFracturedMarika)
	return defeated && !(ending || grace)
}

func checkSealingTreeWarp(bm *eventflags.Bitmap) bool {
	burning, _ := bm.Get(flagSpiritTreeBurning)
	lion, _ := bm.Get(flagDefeatedDancingLion)
	grace, _ := bm.Get(flagGraceEnirIlimOuterWall)
	return burning && !lion && !grace
}

func (eventFlagsFixer) Detect(sv *Save, slotIdx int) bool {
	s := &sv.Slots[slotIdx]
	if len(s.EventFlagsBitmap) == 0 {
		return false
	}
	bm, err := bundleBitmap(s)
	if err != nil {
		return false
	}
	return checkRanniSoftlock(bm) ||
		checkRadahnAliveWarp(bm) ||
		checkRadahnDeadWarp(bm) ||
		checkMorgottWarp(bm) ||
		checkRadagonWarp(bm) ||
		checkSealingTreeWarp(bm)
}

func (f eventFlagsFixer) Apply(sv *Save, slotIdx int) FixResult {
	s := &sv.Slots[slotIdx]
	if len(s.EventFlagsBitmap) == 0 {
		return FixResult{Description: "Event flags not available"}
	}
	bm, err := bundleBitmap(s)
	if err != nil {
		return FixResult{Description: fmt.Sprintf("Event-flag BST unavailable: %v", err)}
	}

	var details []string
	fixedAny := false

	if checkRanniSoftlock(bm) {
		_ = bm.Set(ranniBlockingFlag, false)
		for _, id := range ranniFlagsToEnable {
			_ = bm.Set(id, true)
		}
		details = append(details, "Cleared blocking flag 1034500738 and enabled 31 progression flags")
		fixedAny = true
	}
	if checkRadahnAliveWarp(bm) {
		_ = bm.Set(flagMeteoriteGreen, false)
		_ = bm.Set(flagRadahnMapMarker, false)
		details = append(details, "Cleared Radahn warp sickness (alive)")
		fixedAny = true
	}
	if checkRadahnDeadWarp(bm) {
		_ = bm.Set(flagGraceRadahn, true)
		details = append(details, "Cleared Radahn warp sickness (dead)")
		fixedAny = true
	}
	if checkMorgottWarp(bm) {
		_ = bm.Set(flagMorgottThornsTouched, true)
		_ = bm.Set(flagMorgottFogWall, true)
		details = append(details, "Cleared Morgott warp sickness")
		fixedAny = true
	}
	if checkRadagonWarp(bm) {
		_ = bm.Set(flagGraceFracturedMarika, true)
		details = append(details, "Cleared Radagon warp sickness")
		fixedAny = true
	}
	if checkSealingTreeWarp(bm) {
		_ = bm.Set(flagSealingTreeRestedAfter, true)
		_ = bm.Set(flagGraceEnirIlimOuterWall, true)
		details = append(details, "Cleared Sealing Tree warp sickness")
		fixedAny = true
	}

	if !fixedAny {
		return FixResult{Description: "No event flag issues detected"}
	}

	s.EventFlagsBitmap = bm.Bytes()
	sv.writeEventFlags(slotIdx)
	return FixResult{
		Applied:     true,
		Description: fmt.Sprintf("Fixed %d event flag issue(s)", len(details)),
		Details:     details,
	}
}
