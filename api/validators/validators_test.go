package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type addRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":2}`))
	var body addRequest
	err := DecodeJSONBody(req, &body)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := pkgerrors.As(err).Details().(map[string]string)
	if details["product_id"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"a","extra":true}`))
	var body addRequest
	if err := DecodeJSONBody(req, &body); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPathInt64(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", "42")
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	id, err := PathInt64(req, "orderId")
	if err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (%v)", id, err)
	}

	rctx.URLParams.Values[0] = "abc"
	if _, err := PathInt64(req, "orderId"); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for non-numeric id, got %v", err)
	}
}

func TestDecodeJSONBodyTooLarge(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"`+strings.Repeat("a", 64)+`"}`))
	req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, 16)

	var body addRequest
	err := DecodeJSONBody(req, &body)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msg := pkgerrors.Display(err); msg != MsgBodyTooLarge {
		t.Fatalf("unexpected message %q", msg)
	}
	details := pkgerrors.As(err).Details().(map[string]any)
	if details["limit_bytes"] != int64(16) {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"  hello world  ", 5, "hello"},
		{"nike   air\tmax", 0, "nike air max"},
		{"Анна\x00  Мария", 0, "Анна Мария"},
		{"Анна Мария", 3, "Анн"},
		{"ab   cd", 3, "ab"},
		{"\x07\x1b", 10, ""},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in, tc.maxLen); got != tc.want {
			t.Fatalf("SanitizeString(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}
