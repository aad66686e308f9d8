// Package session holds the bearer token for the authenticated FinSight
// session. The token is the only client state that survives a restart; it
// lives in a single file under the user directory, the terminal analogue
// of browser local storage.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"finsight/internal/logging"

	"go.uber.org/zap"
)

// Store persists the bearer token to a file. Reads go through to disk on
// every call so two processes sharing the file never see a stale token;
// writes and removals keep disk and memory consistent by having no memory
// at all.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a token store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the standard token location under dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "token")
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Get(logging.CategorySession).Warn("token read failed", zap.Error(err))
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Set persists a new token, replacing any previous one.
func (s *Store) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to store empty token")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// 0600: the token is a credential.
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	logging.Get(logging.CategorySession).Info("token stored")
	return nil
}

// Clear removes the token. Clearing an already-empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	logging.Get(logging.CategorySession).Info("token cleared")
	return nil
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}
