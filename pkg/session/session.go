package session

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/google/uuid"
)

// MsgNotSignedIn is shown when an action needs a signed-in shopper.
const MsgNotSignedIn = "user is not signed in"

var (
	// ErrNotFound is returned when a session id is unknown or expired.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when saving a session whose token already expired.
	ErrExpired   = errors.New("session already expired")
	ErrMissingID = errors.New("session id is required")
)

// Session is the signed-in state of one shopper. Every service call takes it explicitly.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// New stamps a fresh session id onto the signed-in user.
func New(userID, email, accessToken string, expiresAt time.Time) Session {
	return Session{
		ID:          uuid.NewString(),
		UserID:      strings.TrimSpace(userID),
		Email:       strings.TrimSpace(email),
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}
}

// Authenticated reports whether the session identifies a user.
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.UserID) != ""
}

// Require returns an unauthorized error when the session has no user.
func (s Session) Require() error {
	if !s.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, MsgNotSignedIn)
	}
	return nil
}

// TTL returns how long the session should be kept, preferring the token expiry.
func (s Session) TTL(now time.Time, fallback time.Duration) time.Duration {
	if s.ExpiresAt.IsZero() {
		return fallback
	}
	if ttl := s.ExpiresAt.Sub(now); ttl > 0 {
		return ttl
	}
	return 0
}

// Store persists sessions between requests or CLI invocations.
type Store interface {
	Save(ctx context.Context, sess Session) error
	Load(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
