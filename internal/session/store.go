package session

import (
	"context"
	"sync"
)

// Store persists preferences keyed by browser id. Load returns zero
// Preferences and no error when nothing is stored.
type Store interface {
	Load(ctx context.Context, browserID string) (Preferences, error)
	Save(ctx context.Context, browserID string, p Preferences) error
	Delete(ctx context.Context, browserID string) error
}

// MemoryStore is an in-process Store used when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Preferences
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]Preferences)}
}

func (m *MemoryStore) Load(_ context.Context, browserID string) (Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs[browserID], nil
}

func (m *MemoryStore) Save(_ context.Context, browserID string, p Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[browserID] = p
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, browserID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs, browserID)
	return nil
}
