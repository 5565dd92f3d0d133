package catalog

import (
	"context"
	"sync/atomic"

	"github.com/angelmondragon/storefront/internal/optimistic"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/observe"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	MsgEmptyProducts = "product list is empty"
	MsgAddedToCart   = "Added to cart"
)

// DetailState backs the product detail pager. Message carries confirmations,
// Error carries failures.
type DetailState struct {
	Products []types.Product `json:"products"`
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// DetailParams groups dependencies for a detail holder.
type DetailParams struct {
	Catalog   Service
	Favorites Favorites
	Cart      Cart
	Session   session.Session
	Recorder  optimistic.OutcomeRecorder
	Logger    *logger.Logger
}

type Detail struct {
	svc     Service
	favs    Favorites
	cart    Cart
	sess    session.Session
	logg    *logger.Logger
	tracker *optimistic.Tracker[string]
	carts   *optimistic.Tracker[string]
	state   *observe.Value[DetailState]
	loading atomic.Bool
}

func NewDetail(params DetailParams) (*Detail, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog service is required")
	}
	if params.Favorites == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites service is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Detail{
		svc:     params.Catalog,
		favs:    params.Favorites,
		cart:    params.Cart,
		sess:    params.Session,
		logg:    logg,
		tracker: optimistic.NewTracker[string]("product_detail", params.Recorder),
		carts:   optimistic.NewTracker[string]("product_detail_cart", params.Recorder),
		state:   observe.NewValue(DetailState{Products: []types.Product{}}),
	}, nil
}

func (d *Detail) State() DetailState { return d.state.Get() }

func (d *Detail) Subscribe() (<-chan DetailState, func()) { return d.state.Subscribe() }

func (d *Detail) Status(productID string) optimistic.Outcome[string] {
	return d.tracker.Status(productID)
}

// Product returns the loaded product with id.
func (d *Detail) Product(id string) (types.Product, bool) {
	for _, p := range d.state.Get().Products {
		if p.ID == id {
			return p, true
		}
	}
	return types.Product{}, false
}

// Load is skipped while another load is running.
func (d *Detail) Load(ctx context.Context) error {
	if !d.loading.CompareAndSwap(false, true) {
		return nil
	}
	defer d.loading.Store(false)

	d.state.Update(func(s DetailState) DetailState {
		s.Loading = true
		s.Error = ""
		s.Message = ""
		return s
	})

	listing, err := d.svc.Detail(ctx, d.sess)
	if err == nil && len(listing.Products) == 0 {
		err = pkgerrors.New(pkgerrors.CodeNotFound, MsgEmptyProducts)
	}
	if err != nil {
		d.logg.Warn(ctx, "product detail load failed: "+err.Error())
		d.state.Update(func(s DetailState) DetailState {
			s.Loading = false
			s.Error = pkgerrors.Display(err)
			return s
		})
		return err
	}

	d.state.Update(func(s DetailState) DetailState {
		s.Products = listing.Products
		s.Loading = false
		return s
	})
	return nil
}

// ToggleFavorite flips the flag locally first, then calls the backend and
// restores the pre-toggle value if the call fails.
func (d *Detail) ToggleFavorite(ctx context.Context, productID string) optimistic.Outcome[string] {
	product, ok := d.Product(productID)
	if !ok {
		return optimistic.Outcome[string]{Key: productID}
	}
	was := product.Favorite

	out := d.tracker.Run(ctx, productID, optimistic.Mutation{
		Apply: func() { d.setFavorite(productID, !was) },
		Remote: func(ctx context.Context) error {
			if was {
				return d.favs.Remove(ctx, d.sess, productID)
			}
			return d.favs.Add(ctx, d.sess, productID)
		},
		Rollback: func() { d.setFavorite(productID, was) },
	})
	if out.Err != nil {
		d.logg.Warn(d.logg.WithProductID(ctx, productID), "favorite toggle rolled back: "+out.Err.Error())
	}
	return out
}

// AddToCart marks productID in-cart right away, adds one unit remotely and
// restores the previous flag if the cart rejects it.
func (d *Detail) AddToCart(ctx context.Context, productID string) error {
	if err := d.sess.Require(); err != nil {
		d.setError(err)
		return err
	}
	product, ok := d.Product(productID)
	if !ok {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "product not loaded")
		d.setError(err)
		return err
	}
	was := product.InCart

	out := d.carts.Run(ctx, productID, optimistic.Mutation{
		Apply: func() { d.setInCart(productID, true) },
		Remote: func(ctx context.Context) error {
			return d.cart.Add(ctx, d.sess, productID, 1)
		},
		Rollback: func() { d.setInCart(productID, was) },
	})
	if out.Err != nil {
		d.logg.Warn(d.logg.WithProductID(ctx, productID), "add to cart rolled back: "+out.Err.Error())
		d.setError(out.Err)
		return out.Err
	}
	d.state.Update(func(s DetailState) DetailState {
		s.Error = ""
		s.Message = MsgAddedToCart
		return s
	})
	return nil
}

// CartStatus exposes the last add-to-cart outcome for productID.
func (d *Detail) CartStatus(productID string) optimistic.Outcome[string] {
	return d.carts.Status(productID)
}

func (d *Detail) setInCart(productID string, inCart bool) {
	d.state.Update(func(s DetailState) DetailState {
		s.Products = mapProduct(s.Products, productID, func(p types.Product) types.Product {
			p.InCart = inCart
			return p
		})
		return s
	})
}

func (d *Detail) setFavorite(productID string, favorite bool) {
	d.state.Update(func(s DetailState) DetailState {
		s.Products = mapProduct(s.Products, productID, func(p types.Product) types.Product {
			p.Favorite = favorite
			return p
		})
		return s
	})
}

func (d *Detail) setError(err error) {
	d.state.Update(func(s DetailState) DetailState {
		s.Error = pkgerrors.Display(err)
		s.Message = ""
		return s
	})
}

func mapProduct(products []types.Product, id string, fn func(types.Product) types.Product) []types.Product {
	out := make([]types.Product, len(products))
	for i, p := range products {
		if p.ID == id {
			p = fn(p)
		}
		out[i] = p
	}
	return out
}
