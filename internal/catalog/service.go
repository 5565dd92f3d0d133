package catalog

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Backend   Backend
	Favorites Favorites
	Cart      Cart
	Logger    *logger.Logger
}

// Service exposes catalog reads. Anonymous sessions read with the anon key.
type Service interface {
	Categories(ctx context.Context, sess session.Session) ([]supabase.Category, error)
	Products(ctx context.Context, sess session.Session) ([]types.Product, error)
	ProductsByCategory(ctx context.Context, sess session.Session, categoryID string) ([]types.Product, error)
	Detail(ctx context.Context, sess session.Session) (Listing, error)
}

// Listing is the fully annotated product list behind the detail pager.
// Degraded carries the optional lookups that failed; their flags default to false.
type Listing struct {
	Products []types.Product `json:"products"`
	Degraded error           `json:"-"`
}

type service struct {
	backend   Backend
	favorites Favorites
	cart      Cart
	logg      *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog backend is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		backend:   params.Backend,
		favorites: params.Favorites,
		cart:      params.Cart,
		logg:      logg,
	}, nil
}

func (s *service) Categories(ctx context.Context, sess session.Session) ([]supabase.Category, error) {
	return s.backend.Categories(ctx, sess.AccessToken)
}

func (s *service) Products(ctx context.Context, sess session.Session) ([]types.Product, error) {
	rows, err := s.backend.Products(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	return types.ProductsFromBackend(rows), nil
}

func (s *service) ProductsByCategory(ctx context.Context, sess session.Session, categoryID string) ([]types.Product, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" || categoryID == AllCategoryID {
		return s.Products(ctx, sess)
	}
	rows, err := s.backend.ProductsByCategory(ctx, sess.AccessToken, categoryID)
	if err != nil {
		return nil, err
	}
	return types.ProductsFromBackend(rows), nil
}

// Detail fetches products and categories together with the shopper's
// favorites and cart. Products and categories are required; the other two
// only annotate and fall back to empty sets.
func (s *service) Detail(ctx context.Context, sess session.Session) (Listing, error) {
	var (
		rows       []supabase.Product
		categories []supabase.Category
		favIDs     = types.NewIDSet()
		cartIDs    = types.NewIDSet()
		mu         sync.Mutex
		degraded   error
	)
	optional := func(err error) {
		mu.Lock()
		degraded = multierr.Append(degraded, err)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.backend.Products(gctx, sess.AccessToken)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.backend.Categories(gctx, sess.AccessToken)
		return err
	})
	if sess.Authenticated() && s.favorites != nil {
		g.Go(func() error {
			ids, err := s.favorites.ProductIDs(gctx, sess)
			if err != nil {
				optional(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "favourites lookup"))
				return nil
			}
			favIDs = ids
			return nil
		})
	}
	if sess.Authenticated() && s.cart != nil {
		g.Go(func() error {
			ids, err := s.cart.ProductIDs(gctx, sess)
			if err != nil {
				optional(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart lookup"))
				return nil
			}
			cartIDs = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Listing{}, err
	}
	if degraded != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, sess.UserID), "product detail annotations incomplete: "+degraded.Error())
	}

	return Listing{Products: annotate(rows, categories, favIDs, cartIDs), Degraded: degraded}, nil
}

func annotate(rows []supabase.Product, categories []supabase.Category, favIDs, cartIDs types.IDSet) []types.Product {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Title
	}
	out := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		p := types.ProductFromBackend(row)
		p.CategoryName = names[p.CategoryID]
		p.Favorite = favIDs.Has(p.ID)
		p.InCart = cartIDs.Has(p.ID)
		out = append(out, p)
	}
	return out
}
