package supabase

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// The cart table is served from the project root rather than rest/v1.
const pathCart = "cart"

func (c *Client) CartEntries(ctx context.Context, token, userID string) ([]CartEntry, error) {
	if blank(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var out []CartEntry
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   pathCart,
		query:  url.Values{"select": {"*"}, "user_id": {Eq(userID)}},
		token:  token,
		prefer: preferRepresentation,
	}, &out)
	return out, err
}

func (c *Client) AddCartEntry(ctx context.Context, token string, entry CartEntry) ([]CartEntry, error) {
	if blank(entry.UserID) || blank(entry.ProductID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	var out []CartEntry
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   pathCart,
		body:   entry,
		token:  token,
		prefer: preferRepresentation,
	}, &out)
	return out, err
}

// UpdateCartCount sets the count column of one cart row.
func (c *Client) UpdateCartCount(ctx context.Context, token, entryID string, count int) ([]CartEntry, error) {
	if blank(entryID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart entry id is required")
	}
	if count < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart count must be at least 1")
	}
	var out []CartEntry
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   pathCart,
		query:  url.Values{"id": {Eq(entryID)}},
		body:   map[string]int{"count": count},
		token:  token,
		prefer: preferRepresentation,
	}, &out)
	return out, err
}

func (c *Client) DeleteCartEntry(ctx context.Context, token, entryID string) error {
	if blank(entryID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart entry id is required")
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   pathCart,
		query:  url.Values{"id": {Eq(entryID)}},
		token:  token,
		prefer: preferRepresentation,
	}, nil)
}

// ClearCart removes every cart row of a user.
func (c *Client) ClearCart(ctx context.Context, token, userID string) error {
	if blank(userID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   pathCart,
		query:  url.Values{"user_id": {Eq(userID)}},
		token:  token,
	}, nil)
}
