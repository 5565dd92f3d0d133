package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type redisStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// RedisStore keeps sessions as JSON values whose TTL follows the token expiry.
type RedisStore struct {
	store redisStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// RedisBackend is satisfied by *redis.Client from pkg/redis.
type RedisBackend interface {
	redisStore
	sessionKeyer
}

func NewRedisStore(client RedisBackend, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &RedisStore{store: client, keyer: client, ttl: ttl, now: time.Now}, nil
}

func (r *RedisStore) Save(ctx context.Context, sess Session) error {
	if strings.TrimSpace(sess.ID) == "" {
		return ErrMissingID
	}
	ttl := sess.TTL(r.now(), r.ttl)
	if ttl <= 0 {
		return ErrExpired
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return r.store.Set(ctx, r.keyer.SessionKey(sess.ID), string(payload), ttl)
}

func (r *RedisStore) Load(ctx context.Context, id string) (Session, error) {
	if strings.TrimSpace(id) == "" {
		return Session{}, ErrNotFound
	}
	raw, err := r.store.Get(ctx, r.keyer.SessionKey(id))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, fmt.Errorf("decoding session: %w", err)
	}
	return sess, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return r.store.Del(ctx, r.keyer.SessionKey(id))
}
