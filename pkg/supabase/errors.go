package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// APIError is a decoded non-2xx backend response.
type APIError struct {
	Status    int
	ErrorCode string
	Message   string
	Body      string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

func (e *APIError) StatusCode() int        { return e.Status }
func (e *APIError) BackendCode() string    { return e.ErrorCode }
func (e *APIError) BackendMessage() string { return e.Message }

// Contains reports whether the raw body or decoded code mentions s, case-insensitively.
func (e *APIError) Contains(s string) bool {
	if e == nil || s == "" {
		return false
	}
	needle := strings.ToLower(s)
	return strings.Contains(strings.ToLower(e.ErrorCode), needle) ||
		strings.Contains(strings.ToLower(e.Body), needle)
}

// AsAPIError extracts the backend error from a chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{
		Status: status,
		Body:   strings.TrimSpace(string(raw)),
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return apiErr
	}
	apiErr.ErrorCode = firstString(fields, "error_code", "error", "code")
	apiErr.Message = firstString(fields, "msg", "message", "error_description")
	return apiErr
}

func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := fields[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func codeForStatus(status int) pkgerrors.Code {
	switch {
	case status == http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case status == http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case status == http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return pkgerrors.CodeConflict
	case status == http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	default:
		return pkgerrors.CodeDependency
	}
}
