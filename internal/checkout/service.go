package checkout

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/validation"
	"golang.org/x/sync/errgroup"
)

const MsgEmptyCart = "cart is empty"

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Profiles  Profiles
	Cart      Cart
	Orders    Orders
	Validator *validation.Validator
	Logger    *logger.Logger
}

// Service prepares and places orders from the current cart.
type Service interface {
	Prepare(ctx context.Context, sess session.Session) (Draft, error)
	Place(ctx context.Context, sess session.Session, form validation.CheckoutForm) (*supabase.Order, error)
	Validator() *validation.Validator
}

// Draft is the prefilled checkout form and priced cart.
type Draft struct {
	Email   string       `json:"email"`
	Phone   string       `json:"phone"`
	Address string       `json:"address"`
	Lines   []cart.Line  `json:"lines"`
	Summary cart.Summary `json:"summary"`
}

type service struct {
	profiles  Profiles
	cart      Cart
	orders    Orders
	validator *validation.Validator
	logg      *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile service is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders service is required")
	}
	if params.Validator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validator is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		profiles:  params.Profiles,
		cart:      params.Cart,
		orders:    params.Orders,
		validator: params.Validator,
		logg:      logg,
	}, nil
}

func (s *service) Validator() *validation.Validator { return s.validator }

// Prepare loads the profile and the cart together. Contact fields come from
// the saved profile, falling back to the session when there is none or the
// profile lookup fails.
func (s *service) Prepare(ctx context.Context, sess session.Session) (Draft, error) {
	if err := sess.Require(); err != nil {
		return Draft{}, err
	}

	var (
		profile supabase.Profile
		found   bool
		lines   []cart.Line
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, found, err = s.profiles.Get(gctx, sess)
		if err != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, sess.UserID), "checkout profile lookup failed: "+err.Error())
			found = false
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lines, err = s.cart.Lines(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return Draft{}, err
	}

	draft := Draft{
		Email:   sess.Email,
		Phone:   sess.Phone,
		Address: sess.Address,
		Lines:   lines,
		Summary: s.cart.Pricing().Summarize(lines),
	}
	if found {
		draft.Phone = profile.Phone
		draft.Address = profile.Address
	}
	return draft, nil
}

// Place validates the form, snapshots the current cart into a new order and
// empties the cart. A failure to clear the cart is logged, not returned.
func (s *service) Place(ctx context.Context, sess session.Session, form validation.CheckoutForm) (*supabase.Order, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	form.Email = strings.TrimSpace(form.Email)
	form.Card = strings.ReplaceAll(strings.TrimSpace(form.Card), " ", "")
	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	lines, err := s.cart.Lines(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgEmptyCart)
	}

	items := make([]orders.LineInput, 0, len(lines))
	for _, line := range lines {
		items = append(items, orders.LineInput{
			ProductID: line.ProductID,
			Title:     line.Product.Title,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
		})
	}
	order, err := s.orders.Place(ctx, sess, orders.PlaceInput{
		Email:    form.Email,
		Phone:    form.Phone,
		Address:  form.Address,
		Delivery: s.cart.Pricing().Delivery,
		Items:    items,
	})
	if err != nil {
		return order, err
	}

	if err := s.cart.Clear(ctx, sess); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID), "clear cart after order", err)
	}
	return order, nil
}
