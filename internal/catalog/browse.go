package catalog

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/observe"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	// AllCategoryID is the synthetic category that matches every product.
	AllCategoryID    = "all"
	AllCategoryTitle = "All"
)

// BrowseState is what the catalog screen renders. Selected is empty until a
// category is picked.
type BrowseState struct {
	Categories []supabase.Category `json:"categories"`
	Products   []types.Product     `json:"products"`
	Visible    []types.Product     `json:"visible"`
	Selected   string              `json:"selected,omitempty"`
	Query      string              `json:"query,omitempty"`
	Loading    bool                `json:"loading"`
	Error      string              `json:"error,omitempty"`
}

// Browser filters the catalog by category and title search.
type Browser struct {
	svc   Service
	sess  session.Session
	logg  *logger.Logger
	state *observe.Value[BrowseState]
}

func NewBrowser(svc Service, sess session.Session, logg *logger.Logger) *Browser {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Browser{
		svc:   svc,
		sess:  sess,
		logg:  logg,
		state: observe.NewValue(BrowseState{Categories: []supabase.Category{}, Products: []types.Product{}, Visible: []types.Product{}}),
	}
}

func (b *Browser) State() BrowseState { return b.state.Get() }

func (b *Browser) Subscribe() (<-chan BrowseState, func()) { return b.state.Subscribe() }

// Load fetches categories and products concurrently. Each list that fails
// keeps its previous value; the failures are combined into the returned error.
func (b *Browser) Load(ctx context.Context) error {
	b.state.Update(func(s BrowseState) BrowseState {
		s.Loading = true
		s.Error = ""
		return s
	})

	var (
		g          errgroup.Group
		categories []supabase.Category
		products   []types.Product
		catErr     error
		prodErr    error
	)
	// Each leg keeps its own error so one failure does not cancel the other.
	g.Go(func() error {
		categories, catErr = b.svc.Categories(ctx, b.sess)
		return nil
	})
	g.Go(func() error {
		products, prodErr = b.svc.Products(ctx, b.sess)
		return nil
	})
	_ = g.Wait()

	err := multierr.Combine(catErr, prodErr)
	if err != nil {
		b.logg.Warn(ctx, "catalog load failed: "+err.Error())
	}

	b.state.Update(func(s BrowseState) BrowseState {
		if catErr == nil {
			s.Categories = withAll(categories)
		}
		if prodErr == nil {
			s.Products = products
		}
		s.Visible = Filter(s.Products, s.Selected, s.Query)
		s.Loading = false
		if err != nil {
			s.Error = pkgerrors.Display(err)
		}
		return s
	})
	return err
}

func (b *Browser) SelectCategory(categoryID string) BrowseState {
	return b.state.Update(func(s BrowseState) BrowseState {
		s.Selected = strings.TrimSpace(categoryID)
		s.Query = ""
		s.Visible = Filter(s.Products, s.Selected, "")
		return s
	})
}

func (b *Browser) ResetCategory() BrowseState {
	return b.state.Update(func(s BrowseState) BrowseState {
		s.Selected = ""
		s.Query = ""
		s.Visible = append([]types.Product(nil), s.Products...)
		return s
	})
}

// Search matches titles case-insensitively across all products. A blank
// query falls back to the selected category.
func (b *Browser) Search(query string) BrowseState {
	return b.state.Update(func(s BrowseState) BrowseState {
		s.Query = strings.TrimSpace(query)
		s.Visible = Filter(s.Products, s.Selected, s.Query)
		return s
	})
}

func withAll(categories []supabase.Category) []supabase.Category {
	out := make([]supabase.Category, 0, len(categories)+1)
	out = append(out, supabase.Category{ID: AllCategoryID, Title: AllCategoryTitle})
	return append(out, categories...)
}

// Filter applies a title query, or the category when the query is blank.
func Filter(products []types.Product, categoryID, query string) []types.Product {
	out := make([]types.Product, 0, len(products))
	if query != "" {
		needle := strings.ToLower(query)
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Title), needle) {
				out = append(out, p)
			}
		}
		return out
	}
	for _, p := range products {
		if categoryID == "" || categoryID == AllCategoryID || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}
