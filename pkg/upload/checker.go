package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Checker decides whether a path was produced by an upload operation.
type Checker interface {
	IsUploaded(path string) bool
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(path string) bool

func (f CheckerFunc) IsUploaded(path string) bool {
	return f(path)
}

// Registry records temporary files written while receiving uploads.
// A path is a genuine upload only if it was registered. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{paths: make(map[string]struct{})}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used when no Checker is given.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register marks path as written by an upload.
func (r *Registry) Register(path string) {
	key := registryKey(path)
	r.mu.Lock()
	r.paths[key] = struct{}{}
	r.mu.Unlock()
}

// IsUploaded implements Checker.
func (r *Registry) IsUploaded(path string) bool {
	if path == "" {
		return false
	}
	key := registryKey(path)
	r.mu.RLock()
	_, ok := r.paths[key]
	r.mu.RUnlock()
	return ok
}

// Paths returns the registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	paths := make([]string, 0, len(r.paths))
	for p := range r.paths {
		paths = append(paths, p)
	}
	r.mu.RUnlock()
	slices.Sort(paths)
	return paths
}

// Release unregisters paths and removes any of them still on disk.
// Files already moved to storage are simply forgotten.
func (r *Registry) Release(paths ...string) error {
	var errs []error
	for _, p := range paths {
		key := registryKey(p)
		r.mu.Lock()
		delete(r.paths, key)
		r.mu.Unlock()

		if err := os.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func registryKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
