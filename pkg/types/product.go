package types

import (
	"github.com/angelmondragon/storefront/pkg/money"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

// Product is a catalog item annotated with the shopper's favorite and cart state.
type Product struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Price        money.Money `json:"price"`
	CategoryID   string      `json:"category_id,omitempty"`
	CategoryName string      `json:"category_name,omitempty"`
	BestSeller   bool        `json:"best_seller"`
	Favorite     bool        `json:"favorite"`
	InCart       bool        `json:"in_cart"`
}

func ProductFromBackend(p supabase.Product) Product {
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Cost,
		CategoryID:  p.Category(),
		BestSeller:  p.BestSeller(),
	}
}

func ProductsFromBackend(in []supabase.Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		out = append(out, ProductFromBackend(p))
	}
	return out
}

// IDSet collects ids for membership checks.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Add(id string) { s[id] = struct{}{} }

func (s IDSet) Remove(id string) { delete(s, id) }
