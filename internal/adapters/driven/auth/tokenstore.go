// Package auth provides bearer token storage for the backend client.
package auth

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
)

// Ensure FileTokenStore implements the interface.
var _ driven.TokenStore = (*FileTokenStore)(nil)

// FileTokenStore keeps the bearer token in a single file with
// restricted permissions.
type FileTokenStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewFileTokenStore creates a file-backed token store.
// If configDir is empty, defaults to ~/.marketsight/token.
func NewFileTokenStore(configDir string) (*FileTokenStore, error) {
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

	return &FileTokenStore{
		filePath: filepath.Join(configDir, "token"),
	}, nil
}

// Token returns the stored token, or domain.ErrAuthRequired when none
// is stored.
func (s *FileTokenStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrAuthRequired
		}
		return "", err
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", domain.ErrAuthRequired
	}
	return token, nil
}

// SetToken stores or replaces the token.
func (s *FileTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write with restricted permissions
	return os.WriteFile(s.filePath, []byte(token+"\n"), 0600)
}

// Clear removes the stored token.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.filePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the token file path.
func (s *FileTokenStore) Path() string {
	return s.filePath
}

// Ensure StaticTokenStore implements the interface.
var _ driven.TokenStore = (*StaticTokenStore)(nil)

// StaticTokenStore keeps the token in memory. Useful for tests.
type StaticTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenStore creates an in-memory token store holding the
// given token. An empty token means logged out.
func NewStaticTokenStore(token string) *StaticTokenStore {
	return &StaticTokenStore{token: token}
}

// Token returns the stored token, or domain.ErrAuthRequired when empty.
func (s *StaticTokenStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", domain.ErrAuthRequired
	}
	return s.token, nil
}

// SetToken stores or replaces the token.
func (s *StaticTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the stored token.
func (s *StaticTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
