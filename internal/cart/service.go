package cart

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
	"golang.org/x/sync/errgroup"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Backend Backend
	Pricing Pricing
	Logger  *logger.Logger
}

// Service exposes cart reads and mutations for a signed-in shopper.
type Service interface {
	Lines(ctx context.Context, sess session.Session) ([]Line, error)
	ProductIDs(ctx context.Context, sess session.Session) (types.IDSet, error)
	Add(ctx context.Context, sess session.Session, productID string, quantity int) error
	SetCount(ctx context.Context, sess session.Session, lineID string, count int) error
	Delete(ctx context.Context, sess session.Session, lineID string) error
	Clear(ctx context.Context, sess session.Session) error
	Pricing() Pricing
}

type service struct {
	backend Backend
	pricing Pricing
	logg    *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart backend is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		backend: params.Backend,
		pricing: params.Pricing,
		logg:    logg,
	}, nil
}

func (s *service) Pricing() Pricing { return s.pricing }

// Lines loads cart rows and the product list together and joins them.
// Rows whose product no longer exists are dropped.
func (s *service) Lines(ctx context.Context, sess session.Session) ([]Line, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}

	var (
		entries  []supabase.CartEntry
		products []supabase.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.backend.CartEntries(gctx, sess.AccessToken, sess.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.backend.Products(gctx, sess.AccessToken)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return joinLines(ctx, s.logg, entries, products), nil
}

func joinLines(ctx context.Context, logg *logger.Logger, entries []supabase.CartEntry, products []supabase.Product) []Line {
	byID := make(map[string]supabase.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	lines := make([]Line, 0, len(entries))
	for _, entry := range entries {
		product, ok := byID[entry.ProductID]
		if !ok {
			logg.Debug(logg.WithProductID(ctx, entry.ProductID), "cart entry references a missing product")
			continue
		}
		qty := entry.Quantity()
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, Line{
			ID:        entry.ID.String(),
			ProductID: entry.ProductID,
			Product:   types.ProductFromBackend(product),
			Quantity:  qty,
		})
	}
	return lines
}

func (s *service) ProductIDs(ctx context.Context, sess session.Session) (types.IDSet, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	entries, err := s.backend.CartEntries(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		return nil, err
	}
	ids := types.NewIDSet()
	for _, entry := range entries {
		ids.Add(entry.ProductID)
	}
	return ids, nil
}

func (s *service) Add(ctx context.Context, sess session.Session, productID string, quantity int) error {
	if err := sess.Require(); err != nil {
		return err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		quantity = 1
	}
	_, err := s.backend.AddCartEntry(ctx, sess.AccessToken, supabase.CartEntry{
		UserID:    sess.UserID,
		ProductID: productID,
		Count:     &quantity,
	})
	return err
}

// SetCount stores a new quantity; a count below one deletes the line instead.
func (s *service) SetCount(ctx context.Context, sess session.Session, lineID string, count int) error {
	if err := sess.Require(); err != nil {
		return err
	}
	if count < 1 {
		return s.backend.DeleteCartEntry(ctx, sess.AccessToken, lineID)
	}
	_, err := s.backend.UpdateCartCount(ctx, sess.AccessToken, lineID, count)
	return err
}

func (s *service) Delete(ctx context.Context, sess session.Session, lineID string) error {
	if err := sess.Require(); err != nil {
		return err
	}
	return s.backend.DeleteCartEntry(ctx, sess.AccessToken, lineID)
}

func (s *service) Clear(ctx context.Context, sess session.Session) error {
	if err := sess.Require(); err != nil {
		return err
	}
	return s.backend.ClearCart(ctx, sess.AccessToken, sess.UserID)
}
