package supabase

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Eq builds a PostgREST equality filter value.
func Eq(value string) string {
	return "eq." + value
}

// Ref is an identifier column that may arrive as a JSON string, number or null.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*r = Ref(n.String())
	return nil
}

func (r Ref) String() string { return string(r) }

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResponse covers both the signup and password grant payloads.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	User         *User  `json:"user,omitempty"`
	ID           string `json:"id,omitempty"`
	Email        string `json:"email,omitempty"`
}

// UserID returns the nested user id, falling back to the top-level id signup returns.
func (a AuthResponse) UserID() string {
	if a.User != nil && a.User.ID != "" {
		return a.User.ID
	}
	return a.ID
}

func (a AuthResponse) UserEmail() string {
	if a.User != nil && a.User.Email != "" {
		return a.User.Email
	}
	return a.Email
}

type Profile struct {
	ID        Ref    `json:"id,omitempty"`
	UserID    string `json:"user_id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Photo     string `json:"photo"`
}

// ProfileFields is the editable part of a profile row.
type ProfileFields struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Photo     string `json:"photo"`
}

type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Product struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Cost         decimal.Decimal `json:"cost"`
	CategoryID   *string         `json:"category_id"`
	IsBestSeller *bool           `json:"is_best_seller"`
}

func (p Product) Category() string {
	if p.CategoryID == nil {
		return ""
	}
	return *p.CategoryID
}

func (p Product) BestSeller() bool {
	return p.IsBestSeller != nil && *p.IsBestSeller
}

// FavouriteRow is one row of the favourite table embedding its product.
type FavouriteRow struct {
	Product *Product `json:"products"`
}

type NewFavourite struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

type CartEntry struct {
	ID        Ref    `json:"id,omitempty"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Count     *int   `json:"count,omitempty"`
}

// Quantity returns the stored count, defaulting to one when the column is null.
func (c CartEntry) Quantity() int {
	if c.Count == nil {
		return 1
	}
	return *c.Count
}

type Order struct {
	ID            int64               `json:"id"`
	CreatedAt     *string             `json:"created_at"`
	DeliveryCoast decimal.NullDecimal `json:"delivery_coast"`
	StatusID      Ref                 `json:"status_id"`
	Items         []OrderItem         `json:"orders_items"`
}

type OrderItem struct {
	ID        Ref             `json:"id"`
	ProductID Ref             `json:"product_id"`
	Title     string          `json:"title"`
	Coast     decimal.Decimal `json:"coast"`
	Count     int             `json:"count"`
}

// NewOrder is the order header row. DeliveryCoast is whole currency units.
type NewOrder struct {
	UserID        string  `json:"user_id"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	PaymentID     *string `json:"payment_id"`
	DeliveryCoast int64   `json:"delivery_coast"`
}

// NewOrderItem is one purchased line. Coast is the exact unit price.
type NewOrderItem struct {
	OrderID   int64           `json:"order_id"`
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Coast     decimal.Decimal `json:"coast"`
	Count     int             `json:"count"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
