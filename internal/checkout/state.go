package checkout

import (
	"context"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/money"
	"github.com/angelmondragon/storefront/pkg/observe"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/validation"
)

// State is the checkout form and its priced cart.
type State struct {
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Card      string          `json:"-"`
	Subtotal  money.Money     `json:"subtotal"`
	Delivery  money.Money     `json:"delivery"`
	Total     money.Money     `json:"total"`
	FormValid bool            `json:"form_valid"`
	Loading   bool            `json:"loading"`
	Error     string          `json:"error,omitempty"`
	Placed    *supabase.Order `json:"placed,omitempty"`
}

func (s State) form() validation.CheckoutForm {
	return validation.CheckoutForm{Email: s.Email, Phone: s.Phone, Address: s.Address, Card: s.Card}
}

type Holder struct {
	svc   Service
	sess  session.Session
	logg  *logger.Logger
	state *observe.Value[State]
}

func NewHolder(svc Service, sess session.Session, logg *logger.Logger) *Holder {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Holder{svc: svc, sess: sess, logg: logg, state: observe.NewValue(State{})}
}

func (h *Holder) State() State { return h.state.Get() }

func (h *Holder) Subscribe() (<-chan State, func()) { return h.state.Subscribe() }

// Refresh reloads the contact fields and the totals.
func (h *Holder) Refresh(ctx context.Context) error {
	h.state.Update(func(s State) State {
		s.Loading = true
		s.Error = ""
		return s
	})
	draft, err := h.svc.Prepare(ctx, h.sess)
	if err != nil {
		h.logg.Warn(h.logg.WithUserID(ctx, h.sess.UserID), "checkout refresh failed: "+err.Error())
		h.state.Update(func(s State) State {
			s.Loading = false
			s.Error = pkgerrors.Display(err)
			return s
		})
		return err
	}
	h.update(func(s State) State {
		s.Email = draft.Email
		s.Phone = draft.Phone
		s.Address = draft.Address
		s.Subtotal = draft.Summary.Subtotal
		s.Delivery = draft.Summary.Delivery
		s.Total = draft.Summary.Total
		s.Loading = false
		return s
	})
	return nil
}

func (h *Holder) UpdateContact(phone, email string) State {
	return h.update(func(s State) State {
		s.Phone = phone
		s.Email = email
		s.Error = ""
		return s
	})
}

func (h *Holder) UpdateAddress(address string) State {
	return h.update(func(s State) State {
		s.Address = address
		return s
	})
}

func (h *Holder) UpdateCard(card string) State {
	return h.update(func(s State) State {
		s.Card = card
		return s
	})
}

func (h *Holder) FormValid() bool { return h.state.Get().FormValid }

// PlaceOrder is a no-op returning a validation error while the form is invalid.
func (h *Holder) PlaceOrder(ctx context.Context) (*supabase.Order, error) {
	st := h.state.Get()
	if !st.FormValid {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout form is incomplete")
	}
	h.state.Update(func(s State) State {
		s.Loading = true
		s.Error = ""
		return s
	})

	order, err := h.svc.Place(ctx, h.sess, st.form())
	if err != nil {
		h.logg.Warn(h.logg.WithUserID(ctx, h.sess.UserID), "place order failed: "+err.Error())
		h.state.Update(func(s State) State {
			s.Loading = false
			s.Error = pkgerrors.Display(err)
			return s
		})
		return order, err
	}

	h.update(func(s State) State {
		s.Card = ""
		s.Loading = false
		s.Placed = order
		return s
	})
	return order, nil
}

// update applies fn and recomputes FormValid in the same step.
func (h *Holder) update(fn func(State) State) State {
	return h.state.Update(func(s State) State {
		s = fn(s)
		s.FormValid = h.svc.Validator().CheckoutValid(s.form())
		return s
	})
}
