// Package memory provides an in-memory content archive for tests.
package memory

import (
	"context"
	"sync"
)

// BlobStore keeps objects in a map and remembers insertion order.
type BlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	paths   []string
}

// New constructs an empty BlobStore.
func New() *BlobStore {
	return &BlobStore{objects: make(map[string][]byte)}
}

// PutObject stores data and returns a mem:// URI.
func (s *BlobStore) PutObject(_ context.Context, path string, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	if _, seen := s.objects[path]; !seen {
		s.paths = append(s.paths, path)
	}
	s.objects[path] = cp
	return "mem://" + path, nil
}

// Object returns the stored bytes for path.
func (s *BlobStore) Object(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	return data, ok
}

// Paths returns stored paths in insertion order.
func (s *BlobStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Len reports how many objects are stored.
func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
