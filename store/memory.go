package store

import (
	"context"
	"encoding/json"
	"sync"

	session "github.com/andamiaje/go-session"
)

// Memory is an in-memory session.Store. It backs tests and ephemeral
// sessions that should not survive a restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ session.Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (s *Memory) SaveSession(_ context.Context, token string, user *session.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[keyCredentialToken] = []byte(token)
	s.data[keyCachedUser] = encoded
	return nil
}

func (s *Memory) ReadSession(context.Context) (string, *session.User, bool) {
	s.mu.RLock()
	token, hasToken := s.data[keyCredentialToken]
	raw, hasUser := s.data[keyCachedUser]
	s.mu.RUnlock()

	if !hasToken || !hasUser || len(token) == 0 {
		return "", nil, false
	}

	user := &session.User{}
	if err := json.Unmarshal(raw, user); err != nil {
		return "", nil, false
	}
	return string(token), user, true
}

func (s *Memory) ClearSession(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, keyCredentialToken)
	delete(s.data, keyCachedUser)
	return nil
}

func (s *Memory) SaveRememberedDocument(_ context.Context, documentNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[keyRememberedDocument] = []byte(documentNumber)
	return nil
}

func (s *Memory) RememberedDocument(context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[keyRememberedDocument]
	if !ok || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

func (s *Memory) ClearRememberedDocument(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, keyRememberedDocument)
	return nil
}

// Corrupt overwrites the cached user with undecodable bytes. Tests use
// it to exercise the degrade-to-absent contract.
func (s *Memory) Corrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[keyCachedUser] = []byte("{not json")
}
