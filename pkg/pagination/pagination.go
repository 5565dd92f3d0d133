package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	// DefaultLimit is the standard page size when a cursor is given without a limit.
	DefaultLimit = 25
	// MaxLimit caps how many rows one page can hold.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers.
type Params struct {
	Limit  int
	Cursor string
}

// Enabled reports whether the caller asked for a page rather than the full list.
func (p Params) Enabled() bool {
	return p.Limit > 0 || strings.TrimSpace(p.Cursor) != ""
}

// Cursor points at the first item of the next page. ID lets a page resync
// when the list shifted between requests.
type Cursor struct {
	Offset int
	ID     string
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// EncodeCursor builds a base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%d|%s", cursor.Offset, cursor.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}
	offset, err := strconv.Atoi(parts[0])
	if err != nil || offset < 0 {
		return nil, fmt.Errorf("invalid cursor offset")
	}
	return &Cursor{Offset: offset, ID: parts[1]}, nil
}

// Slice cuts one page out of items and returns the cursor of the next page,
// empty on the last one.
func Slice[T any](items []T, params Params, id func(T) string) ([]T, string, error) {
	limit := NormalizeLimit(params.Limit)
	cursor, err := ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	start := 0
	if cursor != nil {
		start = -1
		if cursor.Offset < len(items) && id(items[cursor.Offset]) == cursor.ID {
			start = cursor.Offset
		} else {
			for i, item := range items {
				if id(item) == cursor.ID {
					start = i
					break
				}
			}
		}
		if start < 0 {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "cursor no longer matches the list")
		}
	}

	end := start + limit
	if end >= len(items) {
		return items[start:], "", nil
	}
	return items[start:end], EncodeCursor(Cursor{Offset: end, ID: id(items[end])}), nil
}
