package profile

import (
	"context"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/observe"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

type State struct {
	Profile *supabase.Profile `json:"profile,omitempty"`
	Exists  bool              `json:"exists"`
	Editing bool              `json:"editing"`
	Loading bool              `json:"loading"`
	Error   string            `json:"error,omitempty"`
}

// Holder keeps the profile screen of one session.
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

func (h *Holder) Load(ctx context.Context) error {
	h.begin()
	p, exists, err := h.svc.Get(ctx, h.sess)
	if err != nil {
		return h.fail(ctx, "profile load failed", err)
	}
	h.state.Update(func(s State) State {
		s.Profile = &p
		s.Exists = exists
		s.Loading = false
		return s
	})
	return nil
}

// Save stores fields and leaves edit mode on success. A blank photo keeps
// the current one.
func (h *Holder) Save(ctx context.Context, fields supabase.ProfileFields) error {
	if fields.Photo == "" {
		if cur := h.state.Get().Profile; cur != nil {
			fields.Photo = cur.Photo
		}
	}
	h.begin()
	p, err := h.svc.Save(ctx, h.sess, fields)
	if err != nil {
		return h.fail(ctx, "profile save failed", err)
	}
	h.state.Update(func(s State) State {
		s.Profile = &p
		s.Exists = true
		s.Editing = false
		s.Loading = false
		return s
	})
	return nil
}

func (h *Holder) ToggleEdit() State {
	return h.state.Update(func(s State) State {
		s.Editing = !s.Editing
		return s
	})
}

func (h *Holder) ClearError() State {
	return h.state.Update(func(s State) State {
		s.Error = ""
		return s
	})
}

func (h *Holder) begin() {
	h.state.Update(func(s State) State {
		s.Loading = true
		s.Error = ""
		return s
	})
}

func (h *Holder) fail(ctx context.Context, msg string, err error) error {
	h.logg.Warn(h.logg.WithUserID(ctx, h.sess.UserID), msg+": "+err.Error())
	h.state.Update(func(s State) State {
		s.Loading = false
		s.Error = pkgerrors.Display(err)
		return s
	})
	return err
}
