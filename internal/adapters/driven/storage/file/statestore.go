// Package file provides a file-backed state store using TOML.
package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
)

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore is a file-based implementation of driven.StateStore.
// All entries live in a single TOML file within the marketsight config
// directory; each state key maps to one TOML string holding the entry's
// serialised payload. Writes persist immediately.
type StateStore struct {
	mu       sync.RWMutex
	filePath string
	entries  map[string]string
}

// NewStateStore creates a TOML-backed state store.
// If configDir is empty, defaults to ~/.marketsight/state.toml.
func NewStateStore(configDir string) (*StateStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".marketsight")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &StateStore{
		filePath: filepath.Join(configDir, "state.toml"),
		entries:  make(map[string]string),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Get retrieves the value stored under key.
func (s *StateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return []byte(value), nil
}

// Set stores the value under key and persists immediately.
func (s *StateStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = string(value)
	return s.save()
}

// Delete removes the entry under key and persists immediately.
func (s *StateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.save()
}

// save writes the entries to the TOML file (caller must hold lock).
func (s *StateStore) save() error {
	data, err := toml.Marshal(s.entries)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// load reads the entries from the TOML file.
func (s *StateStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No state file yet - that's fine, start empty
			return nil
		}
		return err
	}

	var loaded map[string]string
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded == nil {
		loaded = make(map[string]string)
	}
	s.entries = loaded
	return nil
}

// Path returns the state file path.
func (s *StateStore) Path() string {
	return s.filePath
}
