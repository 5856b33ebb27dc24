// Package iostream resolves file names used by scene data to readable
// streams. A name is tried as a literal path, then relative to each
// search directory, then against virtual filesystems registered under a
// name prefix.
package iostream

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no location holds the requested file.
var ErrNotFound = errors.New("iostream: file not found")

const fileScheme = "file://"

type mount struct {
	prefix string
	fsys   fs.FS
}

// Factory opens streams for file names. It is safe for concurrent use.
type Factory struct {
	mu     sync.RWMutex
	dirs   []string
	mounts []mount
}

// NewFactory creates a factory resolving literal paths only.
func NewFactory() *Factory {
	return &Factory{}
}

// AddSearchDirectory appends dir to the directories relative names are
// resolved against. Adding a directory twice has no effect.
func (f *Factory) AddSearchDirectory(dir string) {
	dir = filepath.Clean(dir)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.dirs {
		if d == dir {
			return
		}
	}
	f.dirs = append(f.dirs, dir)
}

// AddFS mounts fsys under prefix. Names starting with prefix are opened
// from fsys with the prefix removed, for example ":/" or "assets:".
// Longer prefixes are tried first.
func (f *Factory) AddFS(prefix string, fsys fs.FS) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.mounts {
		if m.prefix == prefix {
			f.mounts[i].fsys = fsys
			return
		}
	}
	f.mounts = append(f.mounts, mount{prefix: prefix, fsys: fsys})
	for i := len(f.mounts) - 1; i > 0 && len(f.mounts[i].prefix) > len(f.mounts[i-1].prefix); i-- {
		f.mounts[i], f.mounts[i-1] = f.mounts[i-1], f.mounts[i]
	}
}

// SearchDirectories returns the registered search directories in order.
func (f *Factory) SearchDirectories() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.dirs...)
}

// Open opens the first location holding name.
func (f *Factory) Open(name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrNotFound)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, m := range f.mounts {
		if rest, ok := strings.CutPrefix(name, m.prefix); ok {
			r, err := m.fsys.Open(path.Clean(strings.TrimPrefix(rest, "/")))
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
			}
			return r, nil
		}
	}

	local := strings.TrimPrefix(name, fileScheme)
	if r, err := openRegular(local); err == nil {
		return r, nil
	}
	if !filepath.IsAbs(local) {
		for _, dir := range f.dirs {
			if r, err := openRegular(filepath.Join(dir, local)); err == nil {
				return r, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func openRegular(p string) (*os.File, error) {
	r, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	st, err := r.Stat()
	if err != nil {
		r.Close()
		return nil, err
	}
	if st.IsDir() {
		r.Close()
		return nil, fmt.Errorf("%s is a directory", p)
	}
	return r, nil
}

// StreamForFile opens name, or returns nil when it cannot be found. A
// miss is logged unless quiet is set.
func (f *Factory) StreamForFile(name string, quiet bool) io.ReadCloser {
	r, err := f.Open(name)
	if err != nil {
		if !quiet {
			slogger().Warn("stream not found", "file", name, "err", err)
		}
		return nil
	}
	return r
}

// FileExists reports whether name resolves to a readable file.
func (f *Factory) FileExists(name string) bool {
	r, err := f.Open(name)
	if err != nil {
		return false
	}
	r.Close()
	return true
}

// ReadFile reads the whole file called name.
func (f *Factory) ReadFile(name string) ([]byte, error) {
	r, err := f.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
