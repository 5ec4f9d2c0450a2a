package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// UniquePath returns path if nothing exists there, otherwise the first
// "<stem>_N<ext>" (N = 1, 2, …) that does not exist. The check is not
// atomic with respect to other writers; use a [Namer] to coordinate
// workers within one run.
func UniquePath(path string) string {
	return uniquePath(path, exists)
}

func uniquePath(path string, taken func(string) bool) string {
	if !taken(path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !taken(candidate) {
			return candidate
		}
	}
}

// exists reports whether anything is present at path. Errors other than
// "not exist" count as present so we never pick a name we cannot inspect.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// Namer hands out collision-free output paths to concurrent workers. A
// claimed name is treated as taken even before its file is created, so two
// workers resolving the same base name get distinct results. All methods
// are goroutine-safe.
type Namer struct {
	mu      sync.Mutex
	claimed map[string]bool
	exists  func(string) bool
}

// NewNamer creates a ready-to-use Namer backed by the filesystem.
func NewNamer() *Namer {
	return &Namer{
		claimed: make(map[string]bool),
		exists:  exists,
	}
}

// Claim resolves requested to the first free name (on disk and among this
// run's claims) and reserves it.
func (n *Namer) Claim(requested string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	path := uniquePath(requested, func(p string) bool {
		return n.claimed[p] || n.exists(p)
	})
	n.claimed[path] = true
	return path
}

// Release drops a claim, typically after the write for it failed and the
// partial output was removed.
func (n *Namer) Release(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.claimed, path)
}
