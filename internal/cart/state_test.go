package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront/pkg/money"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func loadedHolder(t *testing.T, backend *stubBackend) *Holder {
	t.Helper()
	svc, err := NewService(ServiceParams{Backend: backend, Pricing: NewPricing(decimal.RequireFromString("60.20"))})
	require.NoError(t, err)
	h := NewHolder(svc, signedIn, nil)
	require.NoError(t, h.Load(context.Background()))
	return h
}

func sampleBackend() *stubBackend {
	return &stubBackend{
		entries: []supabase.CartEntry{
			{ID: "10", ProductID: "a", Count: count(2)},
			{ID: "11", ProductID: "b", Count: count(1)},
		},
		products: []supabase.Product{product("a", "752"), product("b", "300")},
	}
}

func TestHolderLoadComputesSummary(t *testing.T) {
	t.Parallel()

	h := loadedHolder(t, sampleBackend())
	st := h.State()
	require.Len(t, st.Lines, 2)
	require.False(t, st.Loading)
	require.Equal(t, "1804.00", money.Format(st.Summary.Subtotal))
	require.Equal(t, "1864.20", money.Format(st.Summary.Total))
}

func TestHolderIncreaseAndDecreaseRecompute(t *testing.T) {
	t.Parallel()

	backend := sampleBackend()
	h := loadedHolder(t, backend)
	ctx := context.Background()

	require.NoError(t, h.Increase(ctx, "11"))
	require.Equal(t, 2, backend.updates["11"])
	require.Equal(t, "2104.00", money.Format(h.State().Summary.Subtotal))

	require.NoError(t, h.Decrease(ctx, "10"))
	require.Equal(t, 1, backend.updates["10"])
	require.Equal(t, "1352.00", money.Format(h.State().Summary.Subtotal))
}

func TestHolderDecreaseAtOneDeletesLine(t *testing.T) {
	t.Parallel()

	backend := sampleBackend()
	h := loadedHolder(t, backend)

	require.NoError(t, h.Decrease(context.Background(), "11"))
	require.Equal(t, []string{"11"}, backend.deleted)
	st := h.State()
	require.Len(t, st.Lines, 1)
	require.Equal(t, "1504.00", money.Format(st.Summary.Subtotal))
	require.Equal(t, "1564.20", money.Format(st.Summary.Total))
}

func TestHolderFailedMutationKeepsState(t *testing.T) {
	t.Parallel()

	backend := sampleBackend()
	backend.updateErr = errors.New("offline")
	h := loadedHolder(t, backend)

	err := h.Increase(context.Background(), "10")
	require.Error(t, err)
	st := h.State()
	require.Equal(t, 2, st.Lines[0].Quantity)
	require.Equal(t, "offline", st.Error)
	require.Equal(t, "1804.00", money.Format(st.Summary.Subtotal))
}

func TestHolderUnknownLine(t *testing.T) {
	t.Parallel()

	h := loadedHolder(t, sampleBackend())
	require.Error(t, h.Increase(context.Background(), "nope"))
	require.Error(t, h.Delete(context.Background(), "nope"))
}

func TestHolderLoadFailureKeepsPriorLines(t *testing.T) {
	t.Parallel()

	backend := sampleBackend()
	h := loadedHolder(t, backend)
	backend.cartErr = errors.New("cart down")

	require.Error(t, h.Load(context.Background()))
	st := h.State()
	require.Len(t, st.Lines, 2)
	require.Equal(t, "cart down", st.Error)
}

func TestHolderSubscribeSeesUpdates(t *testing.T) {
	t.Parallel()

	h := loadedHolder(t, sampleBackend())
	ch, cancel := h.Subscribe()
	defer cancel()

	<-ch
	require.NoError(t, h.Delete(context.Background(), "10"))
	st := <-ch
	require.Len(t, st.Lines, 1)
}
