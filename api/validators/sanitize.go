package validators

import (
	"strings"
	"unicode"
)

// SanitizeString prepares free-text shopper input such as names and search
// queries: control characters are dropped, whitespace runs collapse to one
// space, and the result is capped at maxLen runes when maxLen is positive.
func SanitizeString(input string, maxLen int) string {
	var (
		b     strings.Builder
		runes int
		space bool
	)
	for _, r := range strings.TrimSpace(input) {
		if maxLen > 0 && runes >= maxLen {
			break
		}
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
			runes++
			if maxLen > 0 && runes >= maxLen {
				break
			}
		}
		space = false
		b.WriteRune(r)
		runes++
	}
	return strings.TrimSpace(b.String())
}
