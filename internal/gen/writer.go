package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Committer stores rendered artifacts. Commit reports whether the stored
// content changed. It is called concurrently, once per artifact path.
type Committer interface {
	Commit(path string, content []byte) (changed bool, err error)
}

// FileCommitter writes artifacts to disk. An artifact whose content is
// already on disk is left alone, so unchanged files keep their timestamps.
type FileCommitter struct{}

// Commit implements Committer.
func (FileCommitter) Commit(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)

	switch {
	case err == nil && bytes.Equal(existing, content):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return false, fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		return false, fmt.Errorf("writing file %s: %w", path, err)
	}

	return true, nil
}

// MemoryCommitter keeps artifacts in memory.
type MemoryCommitter struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryCommitter returns an empty MemoryCommitter.
func NewMemoryCommitter() *MemoryCommitter {
	return &MemoryCommitter{files: make(map[string][]byte)}
}

// Commit implements Committer.
func (m *MemoryCommitter) Commit(path string, content []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.files[path]; ok && bytes.Equal(old, content) {
		return false, nil
	}

	m.files[path] = bytes.Clone(content)

	return true, nil
}

// Get returns the committed content of path.
func (m *MemoryCommitter) Get(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[path]

	return content, ok
}

// Files returns a copy of everything committed so far.
func (m *MemoryCommitter) Files() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.files)
}
