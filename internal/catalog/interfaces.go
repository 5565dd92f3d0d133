package catalog

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Backend is the slice of the REST client the catalog reads from.
type Backend interface {
	Categories(ctx context.Context, token string) ([]supabase.Category, error)
	Products(ctx context.Context, token string) ([]supabase.Product, error)
	ProductsByCategory(ctx context.Context, token, categoryID string) ([]supabase.Product, error)
}

// Favorites is implemented by favorites.Service.
type Favorites interface {
	ProductIDs(ctx context.Context, sess session.Session) (types.IDSet, error)
	Add(ctx context.Context, sess session.Session, productID string) error
	Remove(ctx context.Context, sess session.Session, productID string) error
}

// Cart is implemented by cart.Service.
type Cart interface {
	ProductIDs(ctx context.Context, sess session.Session) (types.IDSet, error)
	Add(ctx context.Context, sess session.Session, productID string, quantity int) error
}
