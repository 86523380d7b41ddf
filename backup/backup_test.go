package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempSave(t *testing.T, content []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ER0000.sl2")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestCreatePreWriteBackupRecordsEntry(t *testing.T) {
	path := writeTempSave(t, []byte("save-bytes"))
	mgr := New(path)

	entry, err := mgr.CreatePreWriteBackup("fix")
	require.NoError(t, err)
	assert.Equal(t, int64(len("save-bytes")), entry.FileSize)

	entries, err := mgr.ListBackups()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.Filename, entries[0].Filename)
}

func TestCreateBackupCarriesDescription(t *testing.T) {
	path := writeTempSave(t, []byte("save-bytes"))
	mgr := New(path)

	_, err := mgr.CreateBackup("before respec")
	require.NoError(t, err)

	entries, err := mgr.ListBackups()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "before respec", entries[0].Description)
}

func TestRestoreBackupOverwritesOriginal(t *testing.T) {
	path := writeTempSave(t, []byte("original"))
	mgr := New(path)

	entry, err := mgr.CreateBackup("")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("corrupted"), 0o644))

	require.NoError(t, mgr.RestoreBackup(entry.Filename))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestListBackupsEmptyWhenNoneCreated(t *testing.T) {
	path := writeTempSave(t, []byte("save-bytes"))
	mgr := New(path)

	entries, err := mgr.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
