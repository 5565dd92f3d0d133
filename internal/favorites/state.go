package favorites

import (
	"context"

	"github.com/angelmondragon/storefront/internal/optimistic"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/observe"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/types"
	"golang.org/x/sync/errgroup"
)

const feature = "favorites"

type State struct {
	Products []types.Product `json:"products"`
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
}

// HolderParams groups dependencies for a favorites holder.
type HolderParams struct {
	Favorites Service
	Cart      CartService
	Session   session.Session
	Recorder  optimistic.OutcomeRecorder
	Logger    *logger.Logger
}

// Holder keeps the favorites screen of one session.
type Holder struct {
	favs    Service
	cart    CartService
	sess    session.Session
	logg    *logger.Logger
	tracker *optimistic.Tracker[string]
	carts   *optimistic.Tracker[string]
	state   *observe.Value[State]
}

func NewHolder(params HolderParams) (*Holder, error) {
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
	return &Holder{
		favs:    params.Favorites,
		cart:    params.Cart,
		sess:    params.Session,
		logg:    logg,
		tracker: optimistic.NewTracker[string](feature, params.Recorder),
		carts:   optimistic.NewTracker[string](feature+"_cart", params.Recorder),
		state:   observe.NewValue(State{Products: []types.Product{}}),
	}, nil
}

func (h *Holder) State() State { return h.state.Get() }

func (h *Holder) Subscribe() (<-chan State, func()) { return h.state.Subscribe() }

// Status exposes the last optimistic outcome for productID.
func (h *Holder) Status(productID string) optimistic.Outcome[string] {
	return h.tracker.Status(productID)
}

// Load fetches favorites and cart membership together. On failure the
// previous list stays in place.
func (h *Holder) Load(ctx context.Context) error {
	h.state.Update(func(s State) State {
		s.Loading = true
		s.Error = ""
		return s
	})

	var (
		items  []types.Product
		inCart types.IDSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = h.favs.List(gctx, h.sess)
		return err
	})
	g.Go(func() error {
		var err error
		inCart, err = h.cart.ProductIDs(gctx, h.sess)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logg.Warn(h.logg.WithUserID(ctx, h.sess.UserID), "favorites load failed: "+err.Error())
		h.state.Update(func(s State) State {
			s.Loading = false
			s.Error = pkgerrors.Display(err)
			return s
		})
		return err
	}

	for i := range items {
		items[i].InCart = inCart.Has(items[i].ID)
	}
	h.state.Update(func(s State) State {
		s.Products = items
		s.Loading = false
		return s
	})
	return nil
}

// Add shows product in the list immediately and removes it again if the
// backend rejects the insert.
func (h *Holder) Add(ctx context.Context, product types.Product) optimistic.Outcome[string] {
	var added bool
	out := h.tracker.Run(ctx, product.ID, optimistic.Mutation{
		Apply: func() {
			h.state.Update(func(s State) State {
				if indexOf(s.Products, product.ID) >= 0 {
					return s
				}
				added = true
				product.Favorite = true
				s.Products = append(append([]types.Product(nil), s.Products...), product)
				return s
			})
		},
		Remote: func(ctx context.Context) error {
			return h.favs.Add(ctx, h.sess, product.ID)
		},
		Rollback: func() {
			if !added {
				return
			}
			h.state.Update(func(s State) State {
				s.Products = without(s.Products, product.ID)
				return s
			})
		},
	})
	h.report(ctx, out)
	return out
}

// Remove drops product from the list immediately and puts it back at its old
// position if the backend delete fails.
func (h *Holder) Remove(ctx context.Context, productID string) optimistic.Outcome[string] {
	var (
		removed types.Product
		at      = -1
	)
	out := h.tracker.Run(ctx, productID, optimistic.Mutation{
		Apply: func() {
			h.state.Update(func(s State) State {
				if at = indexOf(s.Products, productID); at >= 0 {
					removed = s.Products[at]
					s.Products = without(s.Products, productID)
				}
				return s
			})
		},
		Remote: func(ctx context.Context) error {
			return h.favs.Remove(ctx, h.sess, productID)
		},
		Rollback: func() {
			if at < 0 {
				return
			}
			h.state.Update(func(s State) State {
				if indexOf(s.Products, productID) >= 0 {
					return s
				}
				pos := min(at, len(s.Products))
				next := make([]types.Product, 0, len(s.Products)+1)
				next = append(next, s.Products[:pos]...)
				next = append(next, removed)
				next = append(next, s.Products[pos:]...)
				s.Products = next
				return s
			})
		},
	})
	h.report(ctx, out)
	return out
}

// AddToCart marks productID in-cart right away and restores the previous
// flag if the cart rejects the unit.
func (h *Holder) AddToCart(ctx context.Context, productID string) error {
	was := false
	if i := indexOf(h.state.Get().Products, productID); i >= 0 {
		was = h.state.Get().Products[i].InCart
	}
	out := h.carts.Run(ctx, productID, optimistic.Mutation{
		Apply: func() { h.setInCart(productID, true) },
		Remote: func(ctx context.Context) error {
			return h.cart.Add(ctx, h.sess, productID, 1)
		},
		Rollback: func() { h.setInCart(productID, was) },
	})
	if out.Err != nil {
		h.logg.Warn(h.logg.WithProductID(ctx, productID), "favorites add to cart rolled back: "+out.Err.Error())
		h.state.Update(func(s State) State {
			s.Error = pkgerrors.Display(out.Err)
			return s
		})
		return out.Err
	}
	return nil
}

// CartStatus exposes the last add-to-cart outcome for productID.
func (h *Holder) CartStatus(productID string) optimistic.Outcome[string] {
	return h.carts.Status(productID)
}

func (h *Holder) setInCart(productID string, inCart bool) {
	h.state.Update(func(s State) State {
		next := append([]types.Product(nil), s.Products...)
		if i := indexOf(next, productID); i >= 0 {
			next[i].InCart = inCart
		}
		s.Products = next
		return s
	})
}

func (h *Holder) report(ctx context.Context, out optimistic.Outcome[string]) {
	if out.Err == nil {
		return
	}
	h.logg.Warn(h.logg.WithProductID(ctx, out.Key), "favorite change rolled back: "+out.Err.Error())
	h.state.Update(func(s State) State {
		s.Error = pkgerrors.Display(out.Err)
		return s
	})
}

func indexOf(products []types.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func without(products []types.Product, id string) []types.Product {
	out := make([]types.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
