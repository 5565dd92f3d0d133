package orders

import (
	"context"

	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

// Backend is the slice of the REST client orders need.
type Backend interface {
	Orders(ctx context.Context, token, userID string) ([]supabase.Order, error)
	CreateOrder(ctx context.Context, token string, order supabase.NewOrder) (*supabase.Order, error)
	CreateOrderItems(ctx context.Context, token string, items []supabase.NewOrderItem) error
}

// CartAdder is implemented by cart.Service.
type CartAdder interface {
	Add(ctx context.Context, sess session.Session, productID string, quantity int) error
}
