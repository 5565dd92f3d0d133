package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/angelmondragon/storefront/pkg/validation"
	"github.com/shopspring/decimal"
)

var shopper = session.Session{ID: "sess-1", UserID: "user-1", Email: "abc@gmail.com", AccessToken: "token"}

func request(method, target, body string, sess session.Session) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithSession(req.Context(), sess))
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code, envelope.Error.Message
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type stubAuthService struct {
	sess      session.Session
	err       error
	exists    bool
	signedOut []string
	lastEmail string
}

func (s *stubAuthService) SignUp(_ context.Context, form validation.SignUpForm) (session.Session, error) {
	s.lastEmail = form.Email
	return s.sess, s.err
}

func (s *stubAuthService) SignIn(_ context.Context, form validation.SignInForm) (session.Session, error) {
	s.lastEmail = form.Email
	return s.sess, s.err
}

func (s *stubAuthService) SignOut(_ context.Context, sessionID string) error {
	s.signedOut = append(s.signedOut, sessionID)
	return s.err
}

func (s *stubAuthService) CheckUserExists(_ context.Context, email string) (bool, error) {
	s.lastEmail = email
	return s.exists, s.err
}

func (s *stubAuthService) SendPasswordReset(_ context.Context, email string) error {
	s.lastEmail = email
	return s.err
}

type stubCatalogService struct {
	categories []supabase.Category
	listing    catalog.Listing
	err        error
}

func (s *stubCatalogService) Categories(context.Context, session.Session) ([]supabase.Category, error) {
	return s.categories, s.err
}

func (s *stubCatalogService) Products(context.Context, session.Session) ([]types.Product, error) {
	return s.listing.Products, s.err
}

func (s *stubCatalogService) ProductsByCategory(_ context.Context, _ session.Session, categoryID string) ([]types.Product, error) {
	return catalog.Filter(s.listing.Products, categoryID, ""), s.err
}

func (s *stubCatalogService) Detail(context.Context, session.Session) (catalog.Listing, error) {
	return s.listing, s.err
}

type stubCartService struct {
	lines   []cart.Line
	counts  map[string]int
	deleted []string
	added   []string
	err     error
}

func (s *stubCartService) Lines(_ context.Context, sess session.Session) ([]cart.Line, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return s.lines, s.err
}

func (s *stubCartService) ProductIDs(context.Context, session.Session) (types.IDSet, error) {
	ids := types.NewIDSet()
	for _, l := range s.lines {
		ids.Add(l.ProductID)
	}
	return ids, nil
}

func (s *stubCartService) Add(_ context.Context, _ session.Session, productID string, quantity int) error {
	s.added = append(s.added, productID)
	if quantity < 1 {
		quantity = 1
	}
	s.lines = append(s.lines, cart.Line{ID: "new", ProductID: productID, Product: types.Product{ID: productID, Price: price("100")}, Quantity: quantity})
	return s.err
}

func (s *stubCartService) SetCount(_ context.Context, _ session.Session, lineID string, count int) error {
	if s.counts == nil {
		s.counts = map[string]int{}
	}
	s.counts[lineID] = count
	return s.err
}

func (s *stubCartService) Delete(_ context.Context, _ session.Session, lineID string) error {
	s.deleted = append(s.deleted, lineID)
	return s.err
}

func (s *stubCartService) Clear(context.Context, session.Session) error { return s.err }

func (s *stubCartService) Pricing() cart.Pricing { return cart.NewPricing(price("60.20")) }

type stubOrdersService struct {
	history  []supabase.Order
	repeated int
	err      error
}

func (s *stubOrdersService) History(context.Context, session.Session) ([]supabase.Order, error) {
	return s.history, s.err
}

func (s *stubOrdersService) Place(context.Context, session.Session, orders.PlaceInput) (*supabase.Order, error) {
	return &supabase.Order{ID: 1}, s.err
}

func (s *stubOrdersService) Repeat(context.Context, session.Session, int64) (int, error) {
	return s.repeated, s.err
}
