// Package storage writes rendered theme files and clears stale outputs.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store writes output files below a root directory.
type Store struct {
	root string
	mu   sync.Mutex
}

// New creates a Store rooted at root. Relative output directories are
// resolved against it.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the directory the store resolves relative paths against.
func (s *Store) Root() string { return s.root }

func (s *Store) path(dir string) string {
	if filepath.IsAbs(dir) || s.root == "" {
		return dir
	}
	return filepath.Join(s.root, dir)
}

// list returns the names of regular files in dir that start with prefix
// and end with ext, sorted. A missing directory yields no names.
func (s *Store) list(dir, prefix, ext string) ([]string, error) {
	entries, err := os.ReadDir(s.path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) < len(prefix)+len(ext) || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Clean deletes every file in dir matching prefix*ext and returns the
// removed names.
func (s *Store) Clean(dir, prefix, ext string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.list(dir, prefix, ext)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	removed := make([]string, 0, len(names))
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.path(dir), name)); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// Write stores data as dir/name, creating dir if needed. The file is
// written to a temporary name and renamed into place.
func (s *Store) Write(dir, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	full := s.path(dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(full, name)

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}
