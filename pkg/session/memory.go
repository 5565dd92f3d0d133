package session

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	sess    Session
	expires time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, sess Session) error {
	if strings.TrimSpace(sess.ID) == "" {
		return ErrMissingID
	}
	now := m.now()
	ttl := sess.TTL(now, m.ttl)
	if ttl <= 0 {
		return ErrExpired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sess.ID] = memoryEntry{sess: sess, expires: now.Add(ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}
	if !m.now().Before(entry.expires) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return Session{}, ErrNotFound
	}
	return entry.sess, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
