package orders

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/money"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ts(s string) *string { return &s }

func fixedGrouper(loc *time.Location, now time.Time) *Grouper {
	g := NewGrouper(loc, time.Hour, nil)
	g.now = func() time.Time { return now }
	return g
}

func item(productID, title, coast string, count int) supabase.OrderItem {
	return supabase.OrderItem{ProductID: supabase.Ref(productID), Title: title, Coast: decimal.RequireFromString(coast), Count: count}
}

func TestGroupSectionsAndTimeText(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 18, 12, 0, 0, 0, time.UTC)
	g := fixedGrouper(time.UTC, now)

	orders := []supabase.Order{
		{ID: 4, CreatedAt: ts("2025-12-01T09:00:00.123456+00:00"), Items: []supabase.OrderItem{item("p4", "Boots", "500", 1)}},
		{ID: 1, CreatedAt: ts("2025-12-18T11:45:00+00:00"), DeliveryCoast: decimal.NewNullDecimal(decimal.NewFromInt(60)), Items: []supabase.OrderItem{item("p1", "Nike Air Max", "752", 2), item("p2", "Cap", "300", 1)}},
		{ID: 3, CreatedAt: ts("2025-12-17T22:10:00Z"), Items: []supabase.OrderItem{item("p3", "Socks", "50", 1)}},
		{ID: 5},
		{ID: 6, CreatedAt: ts("not a time")},
		{ID: 2, CreatedAt: ts("2025-12-18T08:30:00Z"), Items: []supabase.OrderItem{item("p2", "Cap", "300", 1)}},
		{ID: 7, CreatedAt: ts("2025-12-18T11:00:00Z")},
	}

	sections := g.Group(context.Background(), orders)
	require.Len(t, sections, 3)

	require.Equal(t, SectionRecent, sections[0].Title)
	recent := sections[0].Orders
	require.Len(t, recent, 3)
	require.Equal(t, int64(1), recent[0].ID)
	require.Equal(t, "15 minutes ago", recent[0].TimeText)
	require.Equal(t, "Nike Air Max", recent[0].Title)
	require.Equal(t, "p1", recent[0].ProductID)
	require.Equal(t, "1804.00", money.Format(recent[0].Price))
	require.Equal(t, "60.00", money.Format(recent[0].Delivery))

	require.Equal(t, int64(7), recent[1].ID)
	require.Equal(t, "Order №7", recent[1].Title)
	require.True(t, recent[1].Price.IsZero())
	require.Equal(t, "11:00", recent[1].TimeText)

	require.Equal(t, "08:30", recent[2].TimeText)

	require.Equal(t, SectionYesterday, sections[1].Title)
	require.Equal(t, "22:10", sections[1].Orders[0].TimeText)

	require.Equal(t, "1 December 2025", sections[2].Title)
	require.Equal(t, int64(4), sections[2].Orders[0].ID)
}

func TestGroupUsesConfiguredZone(t *testing.T) {
	t.Parallel()

	zone := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, 12, 18, 12, 0, 0, 0, time.UTC)
	g := fixedGrouper(zone, now)

	sections := g.Group(context.Background(), []supabase.Order{
		{ID: 1, CreatedAt: ts("2025-12-17T22:30:00Z")},
	})
	require.Len(t, sections, 1)
	require.Equal(t, SectionRecent, sections[0].Title)
	require.Equal(t, "01:30", sections[0].Orders[0].TimeText)
}

func TestGroupEmpty(t *testing.T) {
	t.Parallel()

	g := fixedGrouper(time.UTC, time.Now())
	require.Empty(t, g.Group(context.Background(), nil))
}

func TestGroupPriceSumsEveryLine(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 18, 12, 0, 0, 0, time.UTC)
	g := fixedGrouper(time.UTC, now)

	orders := []supabase.Order{{
		ID:        9,
		CreatedAt: ts("2025-12-18T09:00:00Z"),
		Items: []supabase.OrderItem{
			item("p1", "Racket", "100.25", 2),
			item("p2", "Grip", "50", 1),
			item("p3", "Balls", "0.10", 3),
		},
	}}

	sections := g.Group(context.Background(), orders)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Orders, 1)
	v := sections[0].Orders[0]
	require.Equal(t, "Racket", v.Title)
	require.Equal(t, "250.80", money.Format(v.Price))
}
