package checkout

import (
	"context"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

// Profiles is implemented by profile.Service.
type Profiles interface {
	Get(ctx context.Context, sess session.Session) (supabase.Profile, bool, error)
}

// Cart is implemented by cart.Service.
type Cart interface {
	Lines(ctx context.Context, sess session.Session) ([]cart.Line, error)
	Clear(ctx context.Context, sess session.Session) error
	Pricing() cart.Pricing
}

// Orders is implemented by orders.Service.
type Orders interface {
	Place(ctx context.Context, sess session.Session, input orders.PlaceInput) (*supabase.Order, error)
}
