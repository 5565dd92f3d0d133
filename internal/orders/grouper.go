package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/money"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

const (
	SectionRecent    = "Recent"
	SectionYesterday = "Yesterday"
	sectionDate      = "2 January 2006"
	clockLayout      = "15:04"
)

// OrderView is one row of the order history screen.
type OrderView struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Price     money.Money `json:"price"`
	Delivery  money.Money `json:"delivery"`
	TimeText  string      `json:"time_text"`
	ProductID string      `json:"product_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Section is a titled run of orders, newest first.
type Section struct {
	Title  string      `json:"title"`
	Orders []OrderView `json:"orders"`
}

// Grouper turns raw orders into dated history sections.
type Grouper struct {
	loc    *time.Location
	recent time.Duration
	now    func() time.Time
	logg   *logger.Logger
}

func NewGrouper(loc *time.Location, recent time.Duration, logg *logger.Logger) *Grouper {
	if loc == nil {
		loc = time.Local
	}
	if recent <= 0 {
		recent = time.Hour
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Grouper{loc: loc, recent: recent, now: time.Now, logg: logg}
}

// Group sorts orders newest first and sections them by calendar day relative
// to now. Orders without a parseable timestamp are skipped.
func (g *Grouper) Group(ctx context.Context, orders []supabase.Order) []Section {
	now := g.now().In(g.loc)

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		created, ok := g.createdAt(ctx, order)
		if !ok {
			continue
		}
		views = append(views, g.view(order, created, now))
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	sections := make([]Section, 0)
	index := make(map[string]int)
	for _, v := range views {
		title := g.sectionTitle(v.CreatedAt, now)
		i, ok := index[title]
		if !ok {
			i = len(sections)
			index[title] = i
			sections = append(sections, Section{Title: title})
		}
		sections[i].Orders = append(sections[i].Orders, v)
	}
	return sections
}

func (g *Grouper) createdAt(ctx context.Context, order supabase.Order) (time.Time, bool) {
	octx := g.logg.WithOrderID(ctx, order.ID)
	if order.CreatedAt == nil || strings.TrimSpace(*order.CreatedAt) == "" {
		g.logg.Warn(octx, "order has no timestamp")
		return time.Time{}, false
	}
	created, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(*order.CreatedAt))
	if err != nil {
		g.logg.Warn(octx, "order timestamp unparseable: "+err.Error())
		return time.Time{}, false
	}
	return created.In(g.loc), true
}

func (g *Grouper) view(order supabase.Order, created, now time.Time) OrderView {
	v := OrderView{
		ID:        order.ID,
		Title:     fmt.Sprintf("Order №%d", order.ID),
		Price:     money.Zero,
		Delivery:  money.Zero,
		TimeText:  created.Format(clockLayout),
		CreatedAt: created,
	}
	if order.DeliveryCoast.Valid {
		v.Delivery = order.DeliveryCoast.Decimal
	}
	if len(order.Items) > 0 {
		first := order.Items[0]
		if strings.TrimSpace(first.Title) != "" {
			v.Title = first.Title
		}
		v.ProductID = first.ProductID.String()
		for _, item := range order.Items {
			v.Price = v.Price.Add(money.Times(item.Coast, item.Count))
		}
	}
	if sameDay(created, now) {
		if elapsed := now.Sub(created); elapsed < g.recent {
			v.TimeText = fmt.Sprintf("%d minutes ago", max(int(elapsed/time.Minute), 0))
		}
	}
	return v
}

func (g *Grouper) sectionTitle(created, now time.Time) string {
	switch {
	case sameDay(created, now):
		return SectionRecent
	case sameDay(created, now.AddDate(0, 0, -1)):
		return SectionYesterday
	default:
		return created.Format(sectionDate)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
