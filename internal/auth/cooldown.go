package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

const resetScope = "password_reset"

// Cooldown rate-limits an action per key. Acquire starts the window and
// reports false plus the time left when one is already running.
type Cooldown interface {
	Acquire(ctx context.Context, key string) (bool, time.Duration, error)
}

// MemoryCooldown keeps windows in process memory.
type MemoryCooldown struct {
	mu     sync.Mutex
	window time.Duration
	until  map[string]time.Time
	now    func() time.Time
}

func NewMemoryCooldown(window time.Duration) *MemoryCooldown {
	return &MemoryCooldown{window: window, until: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryCooldown) Acquire(_ context.Context, key string) (bool, time.Duration, error) {
	if m.window <= 0 {
		return true, 0, nil
	}
	key = normalizeKey(key)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if until, ok := m.until[key]; ok && now.Before(until) {
		return false, until.Sub(now), nil
	}
	m.until[key] = now.Add(m.window)
	return true, 0, nil
}

type cooldownBackend interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	CooldownKey(scope, subject string) string
}

// RedisCooldown shares windows across processes through SET NX with expiry.
type RedisCooldown struct {
	backend cooldownBackend
	window  time.Duration
}

func NewRedisCooldown(backend cooldownBackend, window time.Duration) *RedisCooldown {
	return &RedisCooldown{backend: backend, window: window}
}

func (r *RedisCooldown) Acquire(ctx context.Context, key string) (bool, time.Duration, error) {
	if r.window <= 0 {
		return true, 0, nil
	}
	redisKey := r.backend.CooldownKey(resetScope, normalizeKey(key))
	ok, err := r.backend.SetNX(ctx, redisKey, "1", r.window)
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}
	left, err := r.backend.TTL(ctx, redisKey)
	if err != nil {
		return false, 0, err
	}
	return false, left, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
