package save

import (
	"bufio"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldensave/eldensave/eventflags"
)

func newTestSave(t *testing.T) *Save {
	t.Helper()
	raw := make([]byte, 4+headerSizePC+slotCount*(16+PayloadSize)+16+userData10PayloadSize+16+userData11Size)
	copy(raw[0:4], magicBND4)

	sv := &Save{raw: raw, Magic: [4]byte{'B', 'N', 'D', '4'}}
	pos := 4 + headerSizePC
	for i := 0; i < slotCount; i++ {
		sv.slotOffset[i] = pos
		sv.slotChecksumPresent[i] = true
		sv.Slots[i] = Slot{
			Index:            i,
			Version:          1,
			EventFlagsBitmap: make([]byte, eventflags.Size),
		}
		pos += 16 + PayloadSize
	}
	sv.commonOffset = pos
	sv.commonHasChecksum = true
	sv.Common = UserData10{
		SteamID:           12345,
		ProfileSummaries:  make([]ProfileSummary, profileSummaryCount),
	}
	return sv
}

func TestTorrentFixerDetectAndApply(t *testing.T) {
	sv := newTestSave(t)
	s := &sv.Slots[0]
	s.Horse = RideGameData{HP: 0, State: RideStateActive}
	s.Offsets.Horse = 0

	f := torrentFixer{}
	assert.True(t, f.Detect(sv, 0))

	result := f.Apply(sv, 0)
	assert.True(t, result.Applied)
	assert.Equal(t, RideStateDead, sv.Slots[0].Horse.State)
	assert.False(t, f.Detect(sv, 0))
}

func TestSteamIDSyncFixer(t *testing.T) {
	sv := newTestSave(t)
	sv.Slots[0].SteamID = 0
	sv.Slots[0].Offsets.SteamID = 100

	f := steamIDSyncFixer{}
	require.True(t, f.Detect(sv, 0))
	result := f.Apply(sv, 0)
	assert.True(t, result.Applied)
	assert.Equal(t, uint64(12345), sv.Slots[0].SteamID)
	assert.False(t, f.Detect(sv, 0))
}

func TestTimeFixerComputesFromSecondsPlayed(t *testing.T) {
	sv := newTestSave(t)
	sv.Common.ProfileSummaries[0].SecondsPlayed = 3725 // 1h 2m 5s
	sv.Slots[0].Time = WorldAreaTime{Hour: 0, Minute: 0, Second: 0}
	sv.Slots[0].Offsets.Time = 200

	f := timeFixer{}
	require.True(t, f.Detect(sv, 0))
	f.Apply(sv, 0)
	assert.Equal(t, WorldAreaTime{Hour: 1, Minute: 2, Second: 5}, sv.Slots[0].Time)
	assert.False(t, f.Detect(sv, 0))
}

func TestTimeFixerDetectsOutOfRangeMinute(t *testing.T) {
	sv := newTestSave(t)
	sv.Slots[0].Time = WorldAreaTime{Hour: 1, Minute: 60, Second: 0}
	f := timeFixer{}
	assert.True(t, f.Detect(sv, 0))
}

func TestWeatherFixerUsesMapIDByte3(t *testing.T) {
	sv := newTestSave(t)
	sv.Slots[0].MapID = MapId{1, 2, 3, 42}
	sv.Slots[0].Weather = WorldAreaWeather{Timer: 0, AreaID: 0}
	sv.Slots[0].Offsets.Weather = 300

	f := weatherFixer{}
	require.True(t, f.Detect(sv, 0))
	f.Apply(sv, 0)
	assert.Equal(t, byte(42), sv.Slots[0].Weather.AreaID)
	assert.False(t, f.Detect(sv, 0))
}

func TestDLCFlagAndGarbageFixers(t *testing.T) {
	sv := newTestSave(t)
	sv.Slots[0].DLC = DLC{EnteredFlag: 1, unknown2: 9}
	sv.Slots[0].DLC.reserved[10] = 0xFF
	sv.Slots[0].Offsets.DLC = 400

	flagFixer := dlcFlagFixer{}
	require.True(t, flagFixer.Detect(sv, 0))
	flagFixer.Apply(sv, 0)
	assert.Equal(t, byte(0), sv.Slots[0].DLC.EnteredFlag)

	garbageFixer := dlcGarbageFixer{}
	require.True(t, garbageFixer.Detect(sv, 0))
	garbageFixer.Apply(sv, 0)
	assert.False(t, garbageFixer.Detect(sv, 0))
}

func TestEventFlagsFixerRanniSoftlock(t *testing.T) {
	eventflags.SetGlobalForTest(mustBuildBST(t))

	sv := newTestSave(t)
	s := &sv.Slots[0]
	s.Offsets.EventFlags = 500
	bm, err := bundleBitmap(s)
	require.NoError(t, err)
	require.NoError(t, bm.Set(ranniBlockingFlag, true))
	s.EventFlagsBitmap = bm.Bytes()

	f := eventFlagsFixer{}
	require.True(t, f.Detect(sv, 0))
	result := f.Apply(sv, 0)
	assert.True(t, result.Applied)
	assert.False(t, f.Detect(sv, 0))
}

// mustBuildBST constructs a minimal BST covering every block id the
// fixture test flags reference, via the package's public parser so the
// test never reaches into BST's private table field.
func mustBuildBST(t *testing.T) *eventflags.BST {
	t.Helper()
	ids := []int{
		ranniBlockingFlag, flagMeteoriteGreen, flagDefeatedRadahn, flagRadahnMapMarker,
		flagGraceRadahn, flagGraceWarDeadCatacombs, flagMorgottDefeated, flagMorgottThornsTouched,
		flagMorgottFogWall, flagDefeatedRadagon, flagEndingCutscene, flagGraceFracturedMarika,
		flagSpiritTreeBurning, flagDefeatedDancingLion, flagSealingTreeRestedAfter, flagGraceEnirIlimOuterWall,
	}
	for _, id := range ranniFlagsToEnable {
		ids = append(ids, id)
	}

	blocks := map[int]bool{}
	for _, id := range ids {
		blocks[id/1000] = true
	}

	var sb strings.Builder
	offset := 0
	for block := range blocks {
		sb.WriteString(strconv.Itoa(block) + "," + strconv.Itoa(offset) + "\n")
		offset++
	}
	bst, err := eventflags.ParseBST(bufio.NewScanner(strings.NewReader(sb.String())))
	require.NoError(t, err)
	return bst
}
