// Package session implements the mocked authentication flow. Identity is
// client-generated and the token is fabricated; nothing is ever validated
// against a backend. Authentication beyond this is explicitly out of scope.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rashmika0907/zentask/internal/model"
	"github.com/rashmika0907/zentask/internal/storage"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Session carries the authenticated user for the lifetime of a login.
// Constructed at login/registration, torn down at logout.
type Session struct {
	User model.User
}

// Manager owns session construction, restoration, and teardown over the
// persistent store.
type Manager struct {
	kv storage.KV
}

// NewManager creates a session manager.
func NewManager(kv storage.KV) *Manager {
	return &Manager{kv: kv}
}

// Login accepts any non-empty credentials and fabricates a session.
func (m *Manager) Login(username, password string) (*Session, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	return m.establish(username)
}

// Register validates the registration form and fabricates a session. No
// account is created anywhere; registration and login are the same mock.
func (m *Manager) Register(username, password, confirm string) (*Session, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	return m.establish(username)
}

func (m *Manager) establish(username string) (*Session, error) {
	user := model.User{
		ID:       storage.GenerateID(),
		Username: username,
		Token:    fmt.Sprintf("fake-jwt-token-%d", time.Now().UnixMilli()),
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session user: %w", err)
	}
	if err := m.kv.Set(storage.SessionKey, string(payload)); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &Session{User: user}, nil
}

// Restore rehydrates the session from the persistent store. A malformed
// payload is treated as no session.
func (m *Manager) Restore() (*Session, bool) {
	payload, ok, err := m.kv.Get(storage.SessionKey)
	if err != nil || !ok {
		return nil, false
	}

	var user model.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		log.Printf("Warning: malformed session payload, treating as logged out: %v", err)
		return nil, false
	}
	if user.ID == "" {
		return nil, false
	}
	return &Session{User: user}, true
}

// Logout clears the stored session. The user's task collection stays
// durable under its own key.
func (m *Manager) Logout() error {
	return m.kv.Remove(storage.SessionKey)
}
