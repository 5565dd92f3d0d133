package favorites

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Backend is the slice of the REST client favorites need.
type Backend interface {
	Favourites(ctx context.Context, token, userID string) ([]supabase.Product, error)
	AddFavourite(ctx context.Context, token string, fav supabase.NewFavourite) error
	DeleteFavourite(ctx context.Context, token, userID, productID string) error
}

// CartService is implemented by cart.Service.
type CartService interface {
	ProductIDs(ctx context.Context, sess session.Session) (types.IDSet, error)
	Add(ctx context.Context, sess session.Session, productID string, quantity int) error
}
