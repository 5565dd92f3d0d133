package supabase

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const pathProfiles = "rest/v1/profiles"

// Profiles returns the profile rows of a user; usually zero or one.
func (c *Client) Profiles(ctx context.Context, token, userID string) ([]Profile, error) {
	if blank(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var out []Profile
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   pathProfiles,
		query:  url.Values{"user_id": {Eq(userID)}, "select": {"*"}},
		token:  token,
	}, &out)
	return out, err
}

// UpdateProfile patches the user's row and returns the updated rows, empty when none matched.
func (c *Client) UpdateProfile(ctx context.Context, token, userID string, fields ProfileFields) ([]Profile, error) {
	if blank(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var out []Profile
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   pathProfiles,
		query:  url.Values{"user_id": {Eq(userID)}},
		body:   fields,
		token:  token,
		prefer: preferRepresentation,
	}, &out)
	return out, err
}

func (c *Client) CreateProfile(ctx context.Context, token string, profile Profile) ([]Profile, error) {
	if blank(profile.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var out []Profile
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   pathProfiles,
		body:   profile,
		token:  token,
		prefer: preferRepresentation,
	}, &out)
	return out, err
}
