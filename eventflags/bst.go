package eventflags

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/eldensave/eldensave/eldenerr"
)

// BST is the precomputed block_id -> block_offset table used to
// locate event-flag bytes. Once built it is immutable and safe to
// share across goroutines without a lock, mirroring the teacher's
// package-level data.CategoryNames / data.HullNames tables — the
// difference here is that this table is loaded from an external
// resource file rather than compiled in, since the real block/offset
// pairing is game-data, not source code.
type BST struct {
	table map[int]int
}

// Lookup returns the block offset for a given block id.
func (b *BST) Lookup(blockID int) (int, bool) {
	v, ok := b.table[blockID]
	return v, ok
}

// Len reports the number of entries in the table.
func (b *BST) Len() int { return len(b.table) }

// ParseBST parses the "<block_id>,<block_offset>" line format described
// by the event-flag BST resource. Blank lines are ignored.
func ParseBST(r *bufio.Scanner) (*BST, error) {
	table := make(map[int]int)
	for r.Scan() {
		line := strings.TrimSpace(r.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("eventflags: malformed BST line %q", line)
		}
		blockID, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("eventflags: malformed block id %q: %w", parts[0], err)
		}
		blockOffset, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("eventflags: malformed block offset %q: %w", parts[1], err)
		}
		table[blockID] = blockOffset
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return &BST{table: table}, nil
}

// ResourceName is the expected filename of the BST resource.
const ResourceName = "eventflag_bst.txt"

// SearchPaths returns the ordered list of directories checked for the
// BST resource: the current directory, a resources/ subdirectory,
// alongside the running executable, and any extra directories the
// caller supplies first (e.g. ELDENSAVE_BST_PATH).
func SearchPaths(extra ...string) []string {
	paths := make([]string, 0, len(extra)+3)
	paths = append(paths, extra...)
	paths = append(paths, ".", "resources")
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Dir(exe))
	}
	return paths
}

// LoadBST searches each directory in paths (in order) for
// ResourceName and parses the first one found. Returns
// eldenerr.ErrMissingResource if no search path contains the file.
func LoadBST(paths []string) (*BST, error) {
	for _, dir := range paths {
		full := filepath.Join(dir, ResourceName)
		f, err := os.Open(full)
		if err != nil {
			continue
		}
		defer f.Close()
		return ParseBST(bufio.NewScanner(f))
	}
	return nil, eldenerr.ErrMissingResource
}

var (
	globalOnce sync.Once
	global     *BST
	globalErr  error
)

// LoadGlobal initializes the process-wide BST exactly once via
// sync.Once, matching the spec's "immutable cached resource
// initialized on first use" requirement. Subsequent calls return the
// same instance (or the same error) regardless of paths.
func LoadGlobal(paths []string) (*BST, error) {
	globalOnce.Do(func() {
		global, globalErr = LoadBST(paths)
	})
	return global, globalErr
}

// SetGlobalForTest injects a known-good BST for test environments,
// bypassing file search entirely, per the spec's design note that
// "callers in test environments should have a way to inject a
// known-good BST."
func SetGlobalForTest(bst *BST) {
	globalOnce.Do(func() {})
	global, globalErr = bst, nil
}
