package cart

import (
	"context"
	"sync/atomic"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/observe"
	"github.com/angelmondragon/storefront/pkg/session"
)

// State is what the cart screen renders.
type State struct {
	Lines   []Line  `json:"lines"`
	Summary Summary `json:"summary"`
	Loading bool    `json:"loading"`
	Error   string  `json:"error,omitempty"`
}

// Holder keeps the cart of one session in memory and republishes it after
// every confirmed mutation.
type Holder struct {
	svc     Service
	sess    session.Session
	logg    *logger.Logger
	state   *observe.Value[State]
	loading atomic.Bool
}

func NewHolder(svc Service, sess session.Session, logg *logger.Logger) *Holder {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Holder{
		svc:   svc,
		sess:  sess,
		logg:  logg,
		state: observe.NewValue(State{Lines: []Line{}, Summary: svc.Pricing().Summarize(nil)}),
	}
}

func (h *Holder) State() State { return h.state.Get() }

func (h *Holder) Subscribe() (<-chan State, func()) { return h.state.Subscribe() }

// Load refreshes the lines. A call made while another load is running is a no-op.
func (h *Holder) Load(ctx context.Context) error {
	if !h.loading.CompareAndSwap(false, true) {
		return nil
	}
	defer h.loading.Store(false)

	h.state.Update(func(s State) State {
		s.Loading = true
		s.Error = ""
		return s
	})

	lines, err := h.svc.Lines(ctx, h.sess)
	if err != nil {
		h.logg.Warn(h.logg.WithUserID(ctx, h.sess.UserID), "cart load failed: "+err.Error())
		h.state.Update(func(s State) State {
			s.Loading = false
			s.Error = pkgerrors.Display(err)
			return s
		})
		return err
	}

	h.state.Update(func(s State) State {
		s.Lines = lines
		s.Summary = h.svc.Pricing().Summarize(lines)
		s.Loading = false
		return s
	})
	return nil
}

func (h *Holder) Increase(ctx context.Context, lineID string) error {
	line, err := h.line(lineID)
	if err != nil {
		return err
	}
	next := line.Quantity + 1
	if err := h.svc.SetCount(ctx, h.sess, lineID, next); err != nil {
		return h.fail(ctx, err)
	}
	h.setQuantity(lineID, next)
	return nil
}

// Decrease lowers the quantity by one; a line at quantity one is deleted.
func (h *Holder) Decrease(ctx context.Context, lineID string) error {
	line, err := h.line(lineID)
	if err != nil {
		return err
	}
	if line.Quantity <= 1 {
		return h.Delete(ctx, lineID)
	}
	next := line.Quantity - 1
	if err := h.svc.SetCount(ctx, h.sess, lineID, next); err != nil {
		return h.fail(ctx, err)
	}
	h.setQuantity(lineID, next)
	return nil
}

func (h *Holder) Delete(ctx context.Context, lineID string) error {
	if _, err := h.line(lineID); err != nil {
		return err
	}
	if err := h.svc.Delete(ctx, h.sess, lineID); err != nil {
		return h.fail(ctx, err)
	}
	h.state.Update(func(s State) State {
		kept := make([]Line, 0, len(s.Lines))
		for _, l := range s.Lines {
			if l.ID != lineID {
				kept = append(kept, l)
			}
		}
		s.Lines = kept
		s.Summary = h.svc.Pricing().Summarize(kept)
		s.Error = ""
		return s
	})
	return nil
}

func (h *Holder) line(lineID string) (Line, error) {
	for _, l := range h.state.Get().Lines {
		if l.ID == lineID {
			return l, nil
		}
	}
	return Line{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

func (h *Holder) setQuantity(lineID string, qty int) {
	h.state.Update(func(s State) State {
		lines := make([]Line, len(s.Lines))
		copy(lines, s.Lines)
		for i := range lines {
			if lines[i].ID == lineID {
				lines[i].Quantity = qty
			}
		}
		s.Lines = lines
		s.Summary = h.svc.Pricing().Summarize(lines)
		s.Error = ""
		return s
	})
}

func (h *Holder) fail(ctx context.Context, err error) error {
	h.logg.Warn(h.logg.WithUserID(ctx, h.sess.UserID), "cart mutation failed: "+err.Error())
	h.state.Update(func(s State) State {
		s.Error = pkgerrors.Display(err)
		return s
	})
	return err
}
