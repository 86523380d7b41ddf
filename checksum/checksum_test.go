package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumAndVerify(t *testing.T) {
	payload := []byte("hello world")
	sum := Sum(payload)
	assert.True(t, Verify(sum, payload))

	mutated := append([]byte(nil), payload...)
	mutated[0] = 'H'
	assert.False(t, Verify(sum, mutated))
}

func TestRefreshAllWritesEachDigestAtItsOwnPrefix(t *testing.T) {
	raw := make([]byte, 16+8+16+8)
	copy(raw[16:24], []byte("payload1"))
	copy(raw[16+8+16:], []byte("payload2"))

	regions := []Region{
		{PrefixOffset: 0, PayloadOffset: 16, PayloadLen: 8},
		{PrefixOffset: 24, PayloadOffset: 40, PayloadLen: 8},
	}
	require.NoError(t, RefreshAll(raw, regions))

	want1 := Sum([]byte("payload1"))
	want2 := Sum([]byte("payload2"))
	assert.Equal(t, want1[:], raw[0:16])
	assert.Equal(t, want2[:], raw[24:40])
}
