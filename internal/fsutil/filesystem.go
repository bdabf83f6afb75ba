// Package fsutil abstracts the few filesystem operations the artifact
// writer needs, so artifact layout can be tested without touching disk.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileSystem is the artifact writer's view of the filesystem. OS is the
// production implementation; Memory backs tests.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Exists(name string) bool
}

// OS implements FileSystem with the os package.
type OS struct{}

func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (OS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (OS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// Memory is an in-memory FileSystem for tests.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	// FailWrites makes every WriteFile fail, for exercising the artifact
	// side channel's failure tolerance.
	FailWrites bool
}

// NewMemory creates an empty in-memory filesystem.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte), dirs: make(map[string]bool)}
}

func (m *Memory) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrPermission}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[filepath.Clean(name)] = cp
	return nil
}

func (m *Memory) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrPermission}
	}
	path = filepath.Clean(path)
	for p := path; p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

func (m *Memory) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if _, ok := m.files[name]; ok {
		return true
	}
	return m.dirs[name]
}

// Paths returns every file path written so far, sorted.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for name := range m.files {
		paths = append(paths, name)
	}
	sort.Strings(paths)
	return paths
}

// PathsUnder returns the written file paths below the given root, sorted.
func (m *Memory) PathsUnder(root string) []string {
	root = filepath.Clean(root)
	var paths []string
	for _, p := range m.Paths() {
		if p == root || strings.HasPrefix(p, root+string(filepath.Separator)) {
			paths = append(paths, p)
		}
	}
	return paths
}
