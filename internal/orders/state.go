package orders

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/observe"
	"github.com/angelmondragon/storefront/pkg/session"
)

type State struct {
	Sections []Section `json:"sections"`
	Loading  bool      `json:"loading"`
	Error    string    `json:"error,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// Holder keeps the order history of one session.
type Holder struct {
	svc     Service
	grouper *Grouper
	sess    session.Session
	logg    *logger.Logger
	state   *observe.Value[State]
}

func NewHolder(svc Service, grouper *Grouper, sess session.Session, logg *logger.Logger) *Holder {
	if logg == nil {
		logg = logger.Nop()
	}
	if grouper == nil {
		grouper = NewGrouper(nil, 0, logg)
	}
	return &Holder{
		svc:     svc,
		grouper: grouper,
		sess:    sess,
		logg:    logg,
		state:   observe.NewValue(State{Sections: []Section{}}),
	}
}

func (h *Holder) State() State { return h.state.Get() }

func (h *Holder) Subscribe() (<-chan State, func()) { return h.state.Subscribe() }

func (h *Holder) Load(ctx context.Context) error {
	if err := h.sess.Require(); err != nil {
		h.setError(err)
		return err
	}
	h.state.Update(func(s State) State {
		s.Loading = true
		s.Error = ""
		s.Message = ""
		return s
	})

	history, err := h.svc.History(ctx, h.sess)
	if err != nil {
		h.logg.Warn(h.logg.WithUserID(ctx, h.sess.UserID), "order history load failed: "+err.Error())
		h.state.Update(func(s State) State {
			s.Loading = false
			s.Error = pkgerrors.Display(err)
			return s
		})
		return err
	}

	sections := h.grouper.Group(ctx, history)
	h.state.Update(func(s State) State {
		s.Sections = sections
		s.Loading = false
		return s
	})
	return nil
}

func (h *Holder) Repeat(ctx context.Context, orderID int64) error {
	added, err := h.svc.Repeat(ctx, h.sess, orderID)
	if err != nil {
		h.logg.Warn(h.logg.WithOrderID(ctx, orderID), "repeat order failed: "+err.Error())
		h.setError(err)
		return err
	}
	h.state.Update(func(s State) State {
		s.Error = ""
		s.Message = fmt.Sprintf("%d items added to cart", added)
		return s
	})
	return nil
}

func (h *Holder) setError(err error) {
	h.state.Update(func(s State) State {
		s.Error = pkgerrors.Display(err)
		return s
	})
}
