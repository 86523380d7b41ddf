package save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSaveWithPresets(t *testing.T) *Save {
	t.Helper()
	sv := newTestSave(t)

	presetsStart := sv.commonOffset + checksumSizeForTest()
	sv.Common.presetsOffset = presetsStart + 4 + 8 + settingsSize + galleryHeaderSize
	sv.Common.FacePresets = make([]FacePreset, facePresetCount)
	for i := range sv.Common.FacePresets {
		sv.Common.FacePresets[i] = FacePreset{
			absOffset: sv.Common.presetsOffset + i*facePresetDataSize,
			Data:      make([]byte, facePresetPayloadSize()),
		}
	}
	return sv
}

func checksumSizeForTest() int { return 16 }

func TestImportPresetWritesOnlyTargetSlot(t *testing.T) {
	sv := newTestSaveWithPresets(t)

	preset := FacePreset{Magic: [4]byte{'F', 'A', 'C', 'E'}, Name: "Tarnished", Data: make([]byte, facePresetPayloadSize())}
	require.NoError(t, sv.ImportPreset(2, preset))

	assert.False(t, sv.Common.FacePresets[2].IsEmpty())
	assert.Equal(t, "Tarnished", sv.Common.FacePresets[2].Name)
	assert.True(t, sv.Common.FacePresets[0].IsEmpty())
	assert.True(t, sv.Common.FacePresets[1].IsEmpty())
}

func TestDeletePresetClearsMagic(t *testing.T) {
	sv := newTestSaveWithPresets(t)
	require.NoError(t, sv.ImportPreset(0, FacePreset{Magic: [4]byte{'F', 'A', 'C', 'E'}, Data: make([]byte, facePresetPayloadSize())}))
	require.False(t, sv.Common.FacePresets[0].IsEmpty())

	require.NoError(t, sv.DeletePreset(0))
	assert.True(t, sv.Common.FacePresets[0].IsEmpty())
}

func TestCopyPresetToSave(t *testing.T) {
	src := newTestSaveWithPresets(t)
	dst := newTestSaveWithPresets(t)

	require.NoError(t, src.ImportPreset(3, FacePreset{Magic: [4]byte{'F', 'A', 'C', 'E'}, Name: "Source", Data: make([]byte, facePresetPayloadSize())}))
	require.NoError(t, src.CopyPresetToSave(3, dst, 5))

	assert.Equal(t, "Source", dst.Common.FacePresets[5].Name)
	assert.False(t, dst.Common.FacePresets[5].IsEmpty())
}

func TestExportPresetsSkipsEmptySlots(t *testing.T) {
	sv := newTestSaveWithPresets(t)
	require.NoError(t, sv.ImportPreset(0, FacePreset{Magic: [4]byte{'F', 'A', 'C', 'E'}, Data: make([]byte, facePresetPayloadSize())}))

	exported := sv.ExportPresets()
	assert.Len(t, exported, 1)
}
