package middleware

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/session"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionFromContext returns the signed-in session, or an anonymous one.
func SessionFromContext(ctx context.Context) session.Session {
	if ctx == nil {
		return session.Session{}
	}
	if v, ok := ctx.Value(ctxSession).(session.Session); ok {
		return v
	}
	return session.Session{}
}

func UserIDFromContext(ctx context.Context) string {
	return SessionFromContext(ctx).UserID
}

// WithSession injects the resolved session into the context.
func WithSession(ctx context.Context, sess session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}
