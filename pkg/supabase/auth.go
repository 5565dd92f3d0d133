package supabase

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	pathSignUp  = "auth/v1/signup"
	pathToken   = "auth/v1/token"
	pathRecover = "auth/v1/recover"
	pathHealth  = "auth/v1/health"
)

// Ping checks that the auth API answers; the gateway readiness probe uses it.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: pathHealth}, nil)
}

// SignUp registers a new email/password account.
func (c *Client) SignUp(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	if blank(creds.Email) || creds.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	var out AuthResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   pathSignUp,
		body:   creds,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn exchanges email and password for an access token.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	if blank(creds.Email) || creds.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	var out AuthResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   pathToken,
		query:  url.Values{"grant_type": {"password"}},
		body:   creds,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recover asks the backend to email a password reset link.
func (c *Client) Recover(ctx context.Context, email string) error {
	if blank(email) {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   pathRecover,
		body:   map[string]string{"email": email},
	}, nil)
}
