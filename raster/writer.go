package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Writer stores a named artifact
type Writer interface {
	Write(name string, data []byte) error
}

// DirWriter writes artifacts as files under a directory
type DirWriter struct {
	Dir string
}

// NewDirWriter creates a writer rooted at dir
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{Dir: dir}
}

// Write stores data at Dir/name, creating parent directories as needed
func (w *DirWriter) Write(name string, data []byte) error {
	path := filepath.Join(w.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// MemoryWriter keeps artifacts in memory. It is safe for concurrent use.
type MemoryWriter struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryWriter creates an empty in-memory writer
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{files: make(map[string][]byte)}
}

// Write stores a copy of data under name
func (w *MemoryWriter) Write(name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[name] = append([]byte(nil), data...)
	return nil
}

// Get returns the data stored under name
func (w *MemoryWriter) Get(name string) ([]byte, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	data, ok := w.files[name]
	return data, ok
}

// Names returns the stored names in sorted order
func (w *MemoryWriter) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.files))
	for name := range w.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored artifacts
func (w *MemoryWriter) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}
