package orders

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/money"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Backend Backend
	Cart    CartAdder
	Logger  *logger.Logger
}

// Service defines order history and placement.
type Service interface {
	History(ctx context.Context, sess session.Session) ([]supabase.Order, error)
	Place(ctx context.Context, sess session.Session, input PlaceInput) (*supabase.Order, error)
	Repeat(ctx context.Context, sess session.Session, orderID int64) (int, error)
}

// PlaceInput is the contact block and priced lines of a new order.
type PlaceInput struct {
	Email    string
	Phone    string
	Address  string
	Delivery money.Money
	Items    []LineInput
}

// LineInput is copied into the order as an immutable snapshot.
type LineInput struct {
	ProductID string
	Title     string
	Price     money.Money
	Quantity  int
}

type service struct {
	backend Backend
	cart    CartAdder
	logg    *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders backend is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{backend: params.Backend, cart: params.Cart, logg: logg}, nil
}

func (s *service) History(ctx context.Context, sess session.Session) ([]supabase.Order, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return s.backend.Orders(ctx, sess.AccessToken, sess.UserID)
}

// Place writes the order header, then one row per line. The header stores
// the delivery fee in whole units.
func (s *service) Place(ctx context.Context, sess session.Session, input PlaceInput) (*supabase.Order, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	order, err := s.backend.CreateOrder(ctx, sess.AccessToken, supabase.NewOrder{
		UserID:        sess.UserID,
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		Address:       strings.TrimSpace(input.Address),
		DeliveryCoast: input.Delivery.IntPart(),
	})
	if err != nil {
		return nil, err
	}

	items := make([]supabase.NewOrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, supabase.NewOrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Title:     line.Title,
			Coast:     money.Round(line.Price),
			Count:     qty,
		})
	}
	if err := s.backend.CreateOrderItems(ctx, sess.AccessToken, items); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID), "order header written without items", err)
		return order, err
	}
	s.logg.Info(s.logg.WithOrderID(s.logg.WithUserID(ctx, sess.UserID), order.ID), "order placed")
	return order, nil
}

// Repeat puts every line of a past order back into the cart and returns how
// many lines were added.
func (s *service) Repeat(ctx context.Context, sess session.Session, orderID int64) (int, error) {
	if s.cart == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "cart service is required to repeat orders")
	}
	history, err := s.History(ctx, sess)
	if err != nil {
		return 0, err
	}

	var order *supabase.Order
	for i := range history {
		if history[i].ID == orderID {
			order = &history[i]
			break
		}
	}
	if order == nil {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	added := 0
	for _, item := range order.Items {
		productID := item.ProductID.String()
		if productID == "" {
			continue
		}
		if err := s.cart.Add(ctx, sess, productID, item.Count); err != nil {
			return added, err
		}
		added++
	}
	if added == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order has no products to repeat")
	}
	return added, nil
}
