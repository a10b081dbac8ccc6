package session

import (
	"errors"
	"sync"
)

// CloseReason records why a session ended.
type CloseReason string

const (
	// ReasonLogout is an explicit user sign-out.
	ReasonLogout CloseReason = "logout"
	// ReasonAuthRejected means the backend refused the token.
	ReasonAuthRejected CloseReason = "auth_rejected"
)

var errEmptyToken = errors.New("session: token must not be empty")

// CloseHook observes forced or voluntary session termination. Page
// controllers subscribe so an auth rejection anywhere lands them back on the
// login surface.
type CloseHook func(reason CloseReason)

// Manager owns the authenticated-user context. It is the only component
// allowed to write the token store: Open on login/registration, Close on
// logout or auth failure. Everything else reads through Token.
type Manager struct {
	mu    sync.RWMutex
	store TokenStore
	hooks []CloseHook
}

// NewManager wraps a token store. A nil store falls back to memory.
func NewManager(store TokenStore) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{store: store}
}

// Open establishes a new session, replacing any prior token.
func (m *Manager) Open(token string) error {
	if token == "" {
		return errEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.SetToken(token)
}

// Token returns the current bearer token, if a session is open.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Token()
}

// Authenticated reports whether a session is currently open.
func (m *Manager) Authenticated() bool {
	_, ok := m.Token()
	return ok
}

// Close terminates the session and notifies subscribers. Closing an already
// closed session is a no-op that still clears the store.
func (m *Manager) Close(reason CloseReason) error {
	m.mu.Lock()
	err := m.store.Clear()
	hooks := append([]CloseHook(nil), m.hooks...)
	m.mu.Unlock()
	for _, hook := range hooks {
		hook(reason)
	}
	return err
}

// OnClose subscribes a hook invoked after every session termination.
func (m *Manager) OnClose(hook CloseHook) {
	if hook == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}
