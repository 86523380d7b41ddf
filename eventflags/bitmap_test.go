package eventflags

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBST(t *testing.T) *BST {
	t.Helper()
	bst, err := ParseBST(bufio.NewScanner(strings.NewReader("0,0\n1,10\n1034,2000\n")))
	require.NoError(t, err)
	return bst
}

func TestBitmapSetThenGet(t *testing.T) {
	buf := make([]byte, Size)
	bm := NewBitmap(buf, testBST(t))

	ok, err := bm.Get(500)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bm.Set(500, true))
	ok, err = bm.Get(500)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBitmapSetDoesNotAlterOtherBits(t *testing.T) {
	buf := make([]byte, Size)
	bm := NewBitmap(buf, testBST(t))

	require.NoError(t, bm.Set(501, true))
	before := append([]byte(nil), buf...)

	require.NoError(t, bm.Set(502, true))

	// flipping bit 502 must not disturb bit 501 or any other byte
	// outside the one it touches.
	ok, err := bm.Get(501)
	require.NoError(t, err)
	assert.True(t, ok)

	changed := 0
	for i := range before {
		if before[i] != buf[i] {
			changed++
		}
	}
	assert.LessOrEqual(t, changed, 1)
}

func TestBitmapUnknownBlock(t *testing.T) {
	buf := make([]byte, Size)
	bm := NewBitmap(buf, testBST(t))

	_, err := bm.Get(999000)
	assert.Error(t, err)
}

func TestBSTParseIgnoresBlankLines(t *testing.T) {
	bst, err := ParseBST(bufio.NewScanner(strings.NewReader("0,0\n\n1,10\n")))
	require.NoError(t, err)
	assert.Equal(t, 2, bst.Len())
}

func TestBitmapMSBFirstWithinByte(t *testing.T) {
	buf := make([]byte, Size)
	bst, err := ParseBST(bufio.NewScanner(strings.NewReader("0,0\n")))
	require.NoError(t, err)
	bm := NewBitmap(buf, bst)

	// event id 0 -> block 0, index 0 -> byte 0, bit 7 (MSB)
	require.NoError(t, bm.Set(0, true))
	assert.Equal(t, byte(0x80), buf[0])
}
