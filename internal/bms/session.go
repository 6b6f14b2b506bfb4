package bms

import (
	"sync"

	"bms_proxy/internal/models"
)

// SessionStore holds the single shared vendor session.
type SessionStore interface {
	Current() (models.Session, bool)
	Set(s models.Session)
	Clear()
}

// MemoryStore is a mutex guarded single-slot SessionStore.
type MemoryStore struct {
	mu   sync.RWMutex
	sess models.Session
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Current() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess, m.sess.Valid()
}

func (m *MemoryStore) Set(s models.Session) {
	m.mu.Lock()
	m.sess = s
	m.mu.Unlock()
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	m.sess = models.Session{}
	m.mu.Unlock()
}
