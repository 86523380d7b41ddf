// Package backup implements the pre-write and on-demand save-file
// backup manager: a directory of timestamped copies plus a JSON
// sidecar carrying the metadata the CLI's `backup list` needs, the
// same copy-then-record shape the source of record's BackupManager
// uses, built here with natefinch/atomic in place of a plain
// os.Create/io.Copy pair (grounded on the teacher's own
// tools/racefixer.copyFile, generalized to be crash-safe).
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// Entry describes one backup on disk.
type Entry struct {
	Filename    string    `json:"filename"`
	SourcePath  string    `json:"source_path"`
	Timestamp   time.Time `json:"timestamp"`
	FileSize    int64     `json:"file_size"`
	Description string    `json:"description,omitempty"`
}

// Manager manages backups for a single save file, storing copies and
// their sidecar metadata in a dedicated directory alongside it.
type Manager struct {
	savePath string
	dir      string
}

// New returns a Manager for savePath, storing backups in a
// ".eldensave-backups" directory next to it unless overridden by
// ELDENSAVE_BACKUP_DIR.
func New(savePath string) *Manager {
	dir := os.Getenv("ELDENSAVE_BACKUP_DIR")
	if dir == "" {
		dir = filepath.Join(filepath.Dir(savePath), ".eldensave-backups")
	}
	return &Manager{savePath: savePath, dir: dir}
}

func (m *Manager) indexPath() string {
	return filepath.Join(m.dir, "index.json")
}

func (m *Manager) loadIndex() ([]Entry, error) {
	data, err := os.ReadFile(m.indexPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("backup: corrupt index: %w", err)
	}
	return entries, nil
}

func (m *Manager) saveIndex(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(m.indexPath(), strings.NewReader(string(data)))
}

// create copies the file at m.savePath into the backup directory under
// a timestamped name tagged with reason, records it in the index, and
// returns the new Entry.
func (m *Manager) create(reason, description string) (Entry, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Entry{}, err
	}

	data, err := os.ReadFile(m.savePath)
	if err != nil {
		return Entry{}, err
	}

	now := time.Now()
	stamp := now.Format("20060102-150405")
	name := fmt.Sprintf("%s.%s.%s.bak", filepath.Base(m.savePath), reason, stamp)
	dest := filepath.Join(m.dir, name)

	if err := atomic.WriteFile(dest, bytes.NewReader(data)); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Filename:    name,
		SourcePath:  m.savePath,
		Timestamp:   now,
		FileSize:    int64(len(data)),
		Description: description,
	}

	entries, err := m.loadIndex()
	if err != nil {
		return Entry{}, err
	}
	entries = append(entries, entry)
	if err := m.saveIndex(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// CreatePreWriteBackup creates a backup tagged with operation (e.g.
// "fix"), the safety net every mutating CLI command takes before
// calling Save.ToFile, unless explicitly suppressed.
func (m *Manager) CreatePreWriteBackup(operation string) (Entry, error) {
	return m.create(operation, "")
}

// CreateBackup creates a user-requested backup with an optional
// description.
func (m *Manager) CreateBackup(description string) (Entry, error) {
	return m.create("manual", description)
}

// ListBackups returns every recorded backup for this save file, most
// recent first.
func (m *Manager) ListBackups() ([]Entry, error) {
	entries, err := m.loadIndex()
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// RestoreBackup overwrites the original save path with the contents of
// the named backup.
func (m *Manager) RestoreBackup(filename string) error {
	src := filepath.Join(m.dir, filename)
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return atomic.WriteFile(m.savePath, bytes.NewReader(data))
}
