// Package credential persists the single bearer token that authorizes every
// MOMU API call. Exactly zero or one credential exists at a time, under one
// fixed namespace. The store is the only mutable state shared across
// components, so every backend serializes access.
package credential

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// tokenFile is the fixed namespace key. Only one credential exists
// system-wide.
const tokenFile = "auth_token"

var ErrEmptyToken = errors.New("credential: empty token")

// Store is the save/get/clear contract. All operations are synchronous and
// idempotent: Save overwrites unconditionally, Clear on an empty store is a
// no-op. The token is opaque and never parsed.
type Store interface {
	Save(token string) error
	Get() (string, bool)
	Clear() error
}

// MemoryStore keeps the token in process memory. It does not survive a
// restart; it exists for tests and for ephemeral runs.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Save(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.set
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

// FileStore persists the token as a single file under dir, surviving process
// restarts.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

func (s *FileStore) path() string { return filepath.Join(s.dir, tokenFile) }

func (s *FileStore) Save(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path(), []byte(token), 0o600)
}

func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path())
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
