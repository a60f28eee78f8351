// Package places manages the saved-places registry: a small JSON document
// mapping user-chosen names ("Home", "Cabin") to street addresses.
package places

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no place is saved under the requested name.
var ErrNotFound = errors.New("no saved place with that name")

// Store is a concurrency-safe, file-backed place registry. Reads during a
// weather fetch and writes via the places subcommands never share an
// invocation, but the store still guards its map so the serve mode can hold
// one instance across requests.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// Open loads (or initializes) the registry at path.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read places file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		// A corrupt registry should not brick the CLI; start empty and let the
		// next write replace it.
		s.data = make(map[string]string)
	}

	return s, nil
}

// Add saves or updates a place.
func (s *Store) Add(name, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[name] = address
	return s.save()
}

// Remove deletes a place. It reports whether the name existed.
func (s *Store) Remove(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[name]; !ok {
		return false, nil
	}
	delete(s.data, name)
	return true, s.save()
}

// Get returns the address saved under name. The lookup is case-insensitive so
// "home" resolves the place saved as "Home".
func (s *Store) Get(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if addr, ok := s.data[name]; ok {
		return addr, nil
	}
	for k, addr := range s.data {
		if strings.EqualFold(k, name) {
			return addr, nil
		}
	}
	return "", ErrNotFound
}

// List returns a copy of all saved places.
func (s *Store) List() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create places directory: %w", err)
		}
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode places: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write places file: %w", err)
	}
	return nil
}
