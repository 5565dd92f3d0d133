package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in the shop currency.
type Money = decimal.Decimal

// Zero is the neutral amount.
var Zero = decimal.Zero

// Parse reads a decimal amount such as "752.00".
func Parse(raw string) (Money, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// FromFloat converts a wire float into a decimal.
func FromFloat(f float64) Money {
	return decimal.NewFromFloat(f)
}

func FromInt(n int64) Money {
	return decimal.NewFromInt(n)
}

// Round rounds half away from zero to two places.
func Round(m Money) Money {
	return m.Round(2)
}

// Format renders m with exactly two fraction digits.
func Format(m Money) string {
	return m.StringFixed(2)
}

func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Times multiplies a unit price by a quantity.
func Times(unit Money, qty int) Money {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}
