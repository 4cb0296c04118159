package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu   sync.RWMutex
	sess *Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SetSession(_ context.Context, token string, identity Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = &Session{Token: token, Identity: identity}
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sess == nil {
		return nil, ErrNoSession
	}
	cpy := *m.sess
	return &cpy, nil
}

func (m *MemoryStore) ClearSession(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}

func (m *MemoryStore) IsAuthenticated(ctx context.Context) bool {
	sess, err := m.GetSession(ctx)
	return err == nil && sess.Token != ""
}
