package supabase

import (
	"context"
	"net/http"
	"net/url"
)

const (
	pathCategories = "rest/v1/categories"
	pathProducts   = "rest/v1/products"
)

func (c *Client) Categories(ctx context.Context, token string) ([]Category, error) {
	var out []Category
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   pathCategories,
		query:  url.Values{"select": {"*"}},
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) Products(ctx context.Context, token string) ([]Product, error) {
	var out []Product
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   pathProducts,
		query:  url.Values{"select": {"*"}},
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) ProductsByCategory(ctx context.Context, token, categoryID string) ([]Product, error) {
	if blank(categoryID) {
		return c.Products(ctx, token)
	}
	var out []Product
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   pathProducts,
		query:  url.Values{"select": {"*"}, "category_id": {Eq(categoryID)}},
		token:  token,
	}, &out)
	return out, err
}
