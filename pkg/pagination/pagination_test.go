package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func identity(s string) string { return s }

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+5))
	require.Equal(t, 7, NormalizeLimit(7))
}

func TestCursorRoundTrip(t *testing.T) {
	raw := EncodeCursor(Cursor{Offset: 3, ID: "p-4"})
	got, err := ParseCursor(raw)
	require.NoError(t, err)
	require.Equal(t, &Cursor{Offset: 3, ID: "p-4"}, got)

	none, err := ParseCursor(" ")
	require.NoError(t, err)
	require.Nil(t, none)

	_, err = ParseCursor("not base64!")
	require.Error(t, err)
}

func TestSliceWalksPages(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	page, next, err := Slice(items, Params{Limit: 2}, identity)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, page)
	require.NotEmpty(t, next)

	page, next, err = Slice(items, Params{Limit: 2, Cursor: next}, identity)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d"}, page)

	page, next, err = Slice(items, Params{Limit: 2, Cursor: next}, identity)
	require.NoError(t, err)
	require.Equal(t, []string{"e"}, page)
	require.Empty(t, next)
}

func TestSliceResyncsShiftedList(t *testing.T) {
	cursor := EncodeCursor(Cursor{Offset: 2, ID: "c"})
	page, _, err := Slice([]string{"new", "a", "b", "c", "d"}, Params{Limit: 2, Cursor: cursor}, identity)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "d"}, page)
}

func TestSliceRejectsStaleCursor(t *testing.T) {
	cursor := EncodeCursor(Cursor{Offset: 1, ID: "gone"})
	_, _, err := Slice([]string{"a", "b"}, Params{Cursor: cursor}, identity)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
