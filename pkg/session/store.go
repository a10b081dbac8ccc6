// Package session holds the persisted credential state shared by every
// authenticated component: the bearer token and the last submitted sales
// payload kept around for report export.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the bearer token between runs. Implementations accept
// any non-empty string verbatim; token shape is never validated here.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string) error
	Clear() error
}

// SnapshotStore mirrors the last submitted sales payload so the export
// feature can include it after the widget has moved on.
type SnapshotStore interface {
	SalesSnapshot() (json.RawMessage, bool)
	SetSalesSnapshot(payload json.RawMessage) error
}

// MemoryStore keeps session state in process memory only.
type MemoryStore struct {
	mu       sync.RWMutex
	token    string
	snapshot json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the stored token, if any.
func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetToken overwrites any prior token.
func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the stored token.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// SalesSnapshot returns the mirrored sales payload, if any.
func (s *MemoryStore) SalesSnapshot() (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, len(s.snapshot) > 0
}

// SetSalesSnapshot overwrites the mirrored sales payload.
func (s *MemoryStore) SetSalesSnapshot(payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = append(json.RawMessage(nil), payload...)
	return nil
}

type fileState struct {
	Token         string          `json:"token,omitempty"`
	SalesSnapshot json.RawMessage `json:"sales_snapshot,omitempty"`
}

// FileStore persists session state as a JSON file, the process-wide analog of
// browser-local storage. Writes go through a temp file + rename so a crashed
// write never leaves a truncated session behind.
type FileStore struct {
	mu    sync.Mutex
	path  string
	state fileState
}

// NewFileStore loads (or initializes) session state at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		// A corrupt session file is treated as signed out rather than fatal.
		s.state = fileState{}
	}
	return s, nil
}

// Token returns the persisted token, if any.
func (s *FileStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token, s.state.Token != ""
}

// SetToken persists token, overwriting any prior value.
func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	return s.flush()
}

// Clear removes the persisted token.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	return s.flush()
}

// SalesSnapshot returns the persisted sales payload, if any.
func (s *FileStore) SalesSnapshot() (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SalesSnapshot, len(s.state.SalesSnapshot) > 0
}

// SetSalesSnapshot persists the mirrored sales payload.
func (s *FileStore) SetSalesSnapshot(payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SalesSnapshot = append(json.RawMessage(nil), payload...)
	return s.flush()
}

func (s *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: mkdir %s: %w", filepath.Dir(s.path), err)
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session: rename %s: %w", tmp, err)
	}
	return nil
}
