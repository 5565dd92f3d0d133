package cart

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/shopspring/decimal"
)

type stubBackend struct {
	mu        sync.Mutex
	entries   []supabase.CartEntry
	products  []supabase.Product
	cartErr   error
	prodErr   error
	updateErr error
	deleteErr error
	added     []supabase.CartEntry
	updates   map[string]int
	deleted   []string
	cleared   []string
}

func (s *stubBackend) CartEntries(_ context.Context, _, _ string) ([]supabase.CartEntry, error) {
	return s.entries, s.cartErr
}

func (s *stubBackend) Products(_ context.Context, _ string) ([]supabase.Product, error) {
	return s.products, s.prodErr
}

func (s *stubBackend) AddCartEntry(_ context.Context, _ string, entry supabase.CartEntry) ([]supabase.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, entry)
	return []supabase.CartEntry{entry}, nil
}

func (s *stubBackend) UpdateCartCount(_ context.Context, _, entryID string, count int) ([]supabase.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.updates == nil {
		s.updates = map[string]int{}
	}
	s.updates[entryID] = count
	return nil, nil
}

func (s *stubBackend) DeleteCartEntry(_ context.Context, _, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, entryID)
	return nil
}

func (s *stubBackend) ClearCart(_ context.Context, _, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, userID)
	return nil
}

func product(id, cost string) supabase.Product {
	return supabase.Product{ID: id, Title: "product " + id, Cost: decimal.RequireFromString(cost)}
}

func count(n int) *int { return &n }
