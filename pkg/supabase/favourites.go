package supabase

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	pathFavourite   = "rest/v1/favourite"
	favouriteSelect = "products!favourite_product_id_fkey(*)"
)

// Favourites returns the products a user marked as favourite.
func (c *Client) Favourites(ctx context.Context, token, userID string) ([]Product, error) {
	if blank(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	var rows []FavouriteRow
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   pathFavourite,
		query:  url.Values{"user_id": {Eq(userID)}, "select": {favouriteSelect}},
		token:  token,
	}, &rows); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		if row.Product != nil {
			products = append(products, *row.Product)
		}
	}
	return products, nil
}

func (c *Client) AddFavourite(ctx context.Context, token string, fav NewFavourite) error {
	if blank(fav.UserID) || blank(fav.ProductID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   pathFavourite,
		body:   fav,
		token:  token,
		prefer: preferMinimal,
	}, nil)
}

func (c *Client) DeleteFavourite(ctx context.Context, token, userID, productID string) error {
	if blank(userID) || blank(productID) {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   pathFavourite,
		query:  url.Values{"user_id": {Eq(userID)}, "product_id": {Eq(productID)}},
		token:  token,
	}, nil)
}
