package save

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSyntheticFile(t *testing.T) []byte {
	t.Helper()
	total := 4 + headerSizePC + slotCount*(16+PayloadSize) + 16 + userData10PayloadSize + 16 + userData11Size
	raw := make([]byte, total)
	copy(raw[0:4], magicBND4)

	pos := 4 + headerSizePC
	for i := 0; i < slotCount; i++ {
		pos += 16 // leave the MD5 prefix all-zero: marks the slot empty
		pos += PayloadSize
	}
	// UserData10 checksum prefix left non-zero-significant (unused by
	// the empty-slot fast path), payload left zeroed (version 0, every
	// count field zero, decodes cleanly as empty presets/summaries).
	return raw
}

func TestLoadDetectsPlatformAndWalksEmptySlots(t *testing.T) {
	raw := buildSyntheticFile(t)
	sv, err := Load(raw)
	require.NoError(t, err)
	assert.False(t, sv.IsPS)
	assert.Equal(t, [4]byte{'B', 'N', 'D', '4'}, sv.Magic)
	assert.Empty(t, sv.ActiveSlots())
	for i := 0; i < slotCount; i++ {
		assert.True(t, sv.Slots[i].IsEmpty())
	}
}

func TestLoadRejectsUnknownMagic(t *testing.T) {
	raw := buildSyntheticFile(t)
	copy(raw[0:4], []byte("XXXX"))
	_, err := Load(raw)
	assert.Error(t, err)
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	raw := buildSyntheticFile(t)
	_, err := Load(raw[:10])
	assert.Error(t, err)
}

func TestToFileWritesRawVerbatim(t *testing.T) {
	raw := buildSyntheticFile(t)
	sv, err := Load(raw)
	require.NoError(t, err)

	dir := t.TempDir()
	path := dir + "/ER0000.sl2"
	require.NoError(t, sv.ToFile(path))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, written)
}
