package supabase

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	pathOrders      = "rest/v1/orders"
	pathOrderItems  = "rest/v1/orders_items"
	ordersSelect    = "*,orders_items(*)"
	ordersNewestFst = "created_at.desc"
)

// Orders returns a user's orders with their embedded line items, newest first.
func (c *Client) Orders(ctx context.Context, token, userID string) ([]Order, error) {
	if blank(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var out []Order
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   pathOrders,
		query: url.Values{
			"user_id": {Eq(userID)},
			"order":   {ordersNewestFst},
			"select":  {ordersSelect},
		},
		token: token,
	}, &out)
	return out, err
}

// CreateOrder inserts the order header and returns the stored row.
func (c *Client) CreateOrder(ctx context.Context, token string, order NewOrder) (*Order, error) {
	if blank(order.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var out []Order
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   pathOrders,
		body:   order,
		token:  token,
		prefer: preferRepresentation,
	}, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order insert returned no rows")
	}
	return &out[0], nil
}

// CreateOrderItems stores the line item snapshots of an order in one request.
func (c *Client) CreateOrderItems(ctx context.Context, token string, items []NewOrderItem) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order items are required")
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   pathOrderItems,
		body:   items,
		token:  token,
		prefer: preferMinimal,
	}, nil)
}
