package cart

import (
	"github.com/angelmondragon/storefront/pkg/money"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Line is one product and quantity in the shopper's cart. Quantity is always >= 1.
type Line struct {
	ID        string        `json:"id"`
	ProductID string        `json:"product_id"`
	Product   types.Product `json:"product"`
	Quantity  int           `json:"quantity"`
}

// Summary is the priced view of a set of lines.
type Summary struct {
	Items    int         `json:"items"`
	Subtotal money.Money `json:"subtotal"`
	Delivery money.Money `json:"delivery"`
	Total    money.Money `json:"total"`
}

// Pricing applies a flat delivery fee on top of exact line totals.
type Pricing struct {
	Delivery money.Money
}

func NewPricing(delivery money.Money) Pricing {
	return Pricing{Delivery: delivery}
}

func (p Pricing) LineTotal(line Line) money.Money {
	return money.Times(line.Product.Price, line.Quantity)
}

func (p Pricing) Subtotal(lines []Line) money.Money {
	subtotal := money.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(p.LineTotal(line))
	}
	return subtotal
}

func (p Pricing) Total(lines []Line) money.Money {
	return p.Subtotal(lines).Add(p.Delivery)
}

func (p Pricing) Summarize(lines []Line) Summary {
	items := 0
	for _, line := range lines {
		items += line.Quantity
	}
	subtotal := p.Subtotal(lines)
	return Summary{
		Items:    items,
		Subtotal: subtotal,
		Delivery: p.Delivery,
		Total:    subtotal.Add(p.Delivery),
	}
}
