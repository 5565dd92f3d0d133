package catalog

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

var signedIn = session.Session{ID: "s1", UserID: "u1", AccessToken: "tok"}

type stubBackend struct {
	categories []supabase.Category
	products   []supabase.Product
	catErr     error
	prodErr    error
	byCategory map[string][]supabase.Product
	tokens     []string
	mu         sync.Mutex
}

func (s *stubBackend) Categories(_ context.Context, token string) ([]supabase.Category, error) {
	s.record(token)
	return s.categories, s.catErr
}

func (s *stubBackend) Products(_ context.Context, token string) ([]supabase.Product, error) {
	s.record(token)
	return s.products, s.prodErr
}

func (s *stubBackend) ProductsByCategory(_ context.Context, token, categoryID string) ([]supabase.Product, error) {
	s.record(token)
	return s.byCategory[categoryID], nil
}

func (s *stubBackend) record(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, token)
}

type stubFavorites struct {
	mu      sync.Mutex
	ids     types.IDSet
	idsErr  error
	mutErr  error
	added   []string
	removed []string
}

func (s *stubFavorites) ProductIDs(context.Context, session.Session) (types.IDSet, error) {
	return s.ids, s.idsErr
}

func (s *stubFavorites) Add(_ context.Context, _ session.Session, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, productID)
	return s.mutErr
}

func (s *stubFavorites) Remove(_ context.Context, _ session.Session, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, productID)
	return s.mutErr
}

type stubCart struct {
	ids    types.IDSet
	idsErr error
	addErr error
	added  []string
	onAdd  func()
}

func (s *stubCart) ProductIDs(context.Context, session.Session) (types.IDSet, error) {
	return s.ids, s.idsErr
}

func (s *stubCart) Add(_ context.Context, _ session.Session, productID string, _ int) error {
	if s.onAdd != nil {
		s.onAdd()
	}
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, productID)
	return nil
}

func strPtr(s string) *string { return &s }

func catalogProduct(id, title, categoryID string) supabase.Product {
	p := supabase.Product{ID: id, Title: title, Cost: decimal.NewFromInt(100)}
	if categoryID != "" {
		p.CategoryID = strPtr(categoryID)
	}
	return p
}

func sampleBackend() *stubBackend {
	return &stubBackend{
		categories: []supabase.Category{{ID: "c1", Title: "Outdoor"}, {ID: "c2", Title: "Tennis"}},
		products: []supabase.Product{
			catalogProduct("p1", "Nike Air Max", "c1"),
			catalogProduct("p2", "Court Runner", "c2"),
			catalogProduct("p3", "Air Trainer", "c2"),
		},
	}
}
