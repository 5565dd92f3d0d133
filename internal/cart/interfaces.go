package cart

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/supabase"
)

// Backend is the slice of the REST client the cart needs.
type Backend interface {
	CartEntries(ctx context.Context, token, userID string) ([]supabase.CartEntry, error)
	Products(ctx context.Context, token string) ([]supabase.Product, error)
	AddCartEntry(ctx context.Context, token string, entry supabase.CartEntry) ([]supabase.CartEntry, error)
	UpdateCartCount(ctx context.Context, token, entryID string, count int) ([]supabase.CartEntry, error)
	DeleteCartEntry(ctx context.Context, token, entryID string) error
	ClearCart(ctx context.Context, token, userID string) error
}
