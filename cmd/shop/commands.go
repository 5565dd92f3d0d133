package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/angelmondragon/storefront/internal/app"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/favorites"
	"github.com/angelmondragon/storefront/internal/optimistic"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/profile"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/money"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/angelmondragon/storefront/pkg/validation"
)

type options struct {
	Name      string
	Email     string
	Password  string
	Product   string
	Quantity  int
	Line      string
	Order     int64
	Category  string
	Query     string
	Firstname string
	Lastname  string
	Phone     string
	Address   string
	Card      string
	JSON      bool
}

// shell runs one command at a time against the shared services, carrying the
// signed-in session between commands of the same invocation.
type shell struct {
	svc       app.Services
	sessions  session.Store
	recorder  optimistic.OutcomeRecorder
	logg      *logger.Logger
	out       io.Writer
	opts      options
	sess      session.Session
	ephemeral bool
}

func newShell(svc app.Services, sessions session.Store, recorder optimistic.OutcomeRecorder, logg *logger.Logger, out io.Writer, opts options) *shell {
	if logg == nil {
		logg = logger.Nop()
	}
	return &shell{svc: svc, sessions: sessions, recorder: recorder, logg: logg, out: out, opts: opts}
}

func (s *shell) resume(ctx context.Context, id string) error {
	if s.sessions == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "session store not configured")
	}
	sess, err := s.sessions.Load(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, session.MsgNotSignedIn)
	}
	s.sess = sess
	return nil
}

func (s *shell) run(ctx context.Context, name string) error {
	switch name {
	case "signin":
		return s.signIn(ctx)
	case "signup":
		return s.signUp(ctx)
	case "reset":
		return s.reset(ctx)
	case "signout":
		return s.signOut(ctx)
	case "catalog":
		return s.catalog(ctx)
	case "cart":
		return s.cart(ctx, nil)
	case "add":
		if err := s.svc.Cart.Add(ctx, s.sess, s.opts.Product, s.opts.Quantity); err != nil {
			return err
		}
		return s.cart(ctx, nil)
	case "inc":
		return s.cart(ctx, (*cart.Holder).Increase)
	case "dec":
		return s.cart(ctx, (*cart.Holder).Decrease)
	case "rm":
		return s.cart(ctx, (*cart.Holder).Delete)
	case "favorites":
		return s.favorites(ctx)
	case "fav":
		return s.toggleFavorite(ctx)
	case "orders":
		return s.orders(ctx, false)
	case "repeat":
		return s.orders(ctx, true)
	case "profile":
		return s.profile(ctx)
	case "checkout":
		return s.checkout(ctx)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown command "+name)
	}
}

func (s *shell) signIn(ctx context.Context) error {
	sess, err := s.svc.Auth.SignIn(ctx, validation.SignInForm{Email: s.opts.Email, Password: s.opts.Password})
	if err != nil {
		return err
	}
	return s.opened(sess)
}

func (s *shell) signUp(ctx context.Context) error {
	sess, err := s.svc.Auth.SignUp(ctx, validation.SignUpForm{Name: s.opts.Name, Email: s.opts.Email, Password: s.opts.Password})
	if err != nil {
		return err
	}
	return s.opened(sess)
}

func (s *shell) opened(sess session.Session) error {
	s.sess = sess
	fmt.Fprintf(s.out, "signed in as %s\nsession %s\n", sess.Email, sess.ID)
	if s.ephemeral {
		fmt.Fprintln(s.out, "sessions are kept in memory; chain commands with -cmd=signin,cart to reuse this one")
	}
	return nil
}

func (s *shell) reset(ctx context.Context) error {
	exists, err := s.svc.Auth.CheckUserExists(ctx, s.opts.Email)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintln(s.out, "password reset email sent")
	}
	return nil
}

func (s *shell) signOut(ctx context.Context) error {
	if err := s.svc.Auth.SignOut(ctx, s.sess.ID); err != nil {
		return err
	}
	s.sess = session.Session{}
	fmt.Fprintln(s.out, "signed out")
	return nil
}

func (s *shell) catalog(ctx context.Context) error {
	browser := catalog.NewBrowser(s.svc.Catalog, s.sess, s.logg)
	if err := browser.Load(ctx); err != nil {
		return err
	}
	if s.opts.Category != "" {
		browser.SelectCategory(s.opts.Category)
	}
	st := browser.Search(s.opts.Query)
	if s.opts.JSON {
		return s.printJSON(st)
	}
	s.printProducts(st.Visible)
	return nil
}

func (s *shell) cart(ctx context.Context, action func(*cart.Holder, context.Context, string) error) error {
	holder := cart.NewHolder(s.svc.Cart, s.sess, s.logg)
	if err := holder.Load(ctx); err != nil {
		return err
	}
	if action != nil {
		if err := action(holder, ctx, s.opts.Line); err != nil {
			return err
		}
	}
	st := holder.State()
	if s.opts.JSON {
		return s.printJSON(st)
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tPRODUCT\tQTY\tPRICE")
	for _, line := range st.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", line.ID, line.Product.Title, line.Quantity, money.Format(line.Product.Price))
	}
	_ = tw.Flush()
	fmt.Fprintf(s.out, "items %d  subtotal %s  delivery %s  total %s\n",
		st.Summary.Items, money.Format(st.Summary.Subtotal), money.Format(st.Summary.Delivery), money.Format(st.Summary.Total))
	return nil
}

func (s *shell) favorites(ctx context.Context) error {
	holder, err := favorites.NewHolder(favorites.HolderParams{
		Favorites: s.svc.Favorites,
		Cart:      s.svc.Cart,
		Session:   s.sess,
		Recorder:  s.recorder,
		Logger:    s.logg,
	})
	if err != nil {
		return err
	}
	if err := holder.Load(ctx); err != nil {
		return err
	}
	st := holder.State()
	if s.opts.JSON {
		return s.printJSON(st)
	}
	s.printProducts(st.Products)
	return nil
}

func (s *shell) toggleFavorite(ctx context.Context) error {
	detail, err := catalog.NewDetail(catalog.DetailParams{
		Catalog:   s.svc.Catalog,
		Favorites: s.svc.Favorites,
		Cart:      s.svc.Cart,
		Session:   s.sess,
		Recorder:  s.recorder,
		Logger:    s.logg,
	})
	if err != nil {
		return err
	}
	if err := detail.Load(ctx); err != nil {
		return err
	}
	out := detail.ToggleFavorite(ctx, s.opts.Product)
	if out.Status == optimistic.StatusNone {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if out.Err != nil {
		return out.Err
	}
	if p, ok := detail.Product(s.opts.Product); ok {
		state := "removed from"
		if p.Favorite {
			state = "added to"
		}
		fmt.Fprintf(s.out, "%s %s favorites\n", p.Title, state)
	}
	return nil
}

func (s *shell) orders(ctx context.Context, repeat bool) error {
	holder := orders.NewHolder(s.svc.Orders, s.svc.Grouper, s.sess, s.logg)
	if repeat {
		if err := holder.Repeat(ctx, s.opts.Order); err != nil {
			return err
		}
		fmt.Fprintln(s.out, holder.State().Message)
		return nil
	}
	if err := holder.Load(ctx); err != nil {
		return err
	}
	st := holder.State()
	if s.opts.JSON {
		return s.printJSON(st)
	}
	for _, section := range st.Sections {
		fmt.Fprintln(s.out, section.Title)
		tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		for _, o := range section.Orders {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", o.ID, o.Title, money.Format(o.Price), o.TimeText)
		}
		_ = tw.Flush()
	}
	return nil
}

func (s *shell) profile(ctx context.Context) error {
	holder := profile.NewHolder(s.svc.Profile, s.sess, s.logg)
	if err := holder.Load(ctx); err != nil {
		return err
	}
	if edits, ok := s.profileEdits(holder.State().Profile); ok {
		holder.ToggleEdit()
		if err := holder.Save(ctx, edits); err != nil {
			return err
		}
	}
	st := holder.State()
	if s.opts.JSON {
		return s.printJSON(st)
	}
	if st.Profile == nil || !st.Exists {
		fmt.Fprintln(s.out, "no profile yet")
		return nil
	}
	p := st.Profile
	fmt.Fprintf(s.out, "%s %s\nphone   %s\naddress %s\n", p.Firstname, p.Lastname, p.Phone, p.Address)
	return nil
}

// profileEdits overlays the profile flags on the stored fields. ok is false
// when no profile flag was given.
func (s *shell) profileEdits(cur *supabase.Profile) (supabase.ProfileFields, bool) {
	var fields supabase.ProfileFields
	if cur != nil {
		fields = supabase.ProfileFields{
			Firstname: cur.Firstname,
			Lastname:  cur.Lastname,
			Address:   cur.Address,
			Phone:     cur.Phone,
			Photo:     cur.Photo,
		}
	}
	changed := false
	for _, edit := range []struct {
		val string
		dst *string
	}{
		{s.opts.Firstname, &fields.Firstname},
		{s.opts.Lastname, &fields.Lastname},
		{s.opts.Address, &fields.Address},
		{s.opts.Phone, &fields.Phone},
	} {
		if strings.TrimSpace(edit.val) != "" {
			*edit.dst = strings.TrimSpace(edit.val)
			changed = true
		}
	}
	return fields, changed
}

func (s *shell) checkout(ctx context.Context) error {
	holder := checkout.NewHolder(s.svc.Checkout, s.sess, s.logg)
	if err := holder.Refresh(ctx); err != nil {
		return err
	}
	st := holder.State()
	phone, email, address := st.Phone, st.Email, st.Address
	if s.opts.Phone != "" {
		phone = s.opts.Phone
	}
	if s.opts.Email != "" {
		email = s.opts.Email
	}
	if s.opts.Address != "" {
		address = s.opts.Address
	}
	holder.UpdateContact(phone, email)
	holder.UpdateAddress(address)
	holder.UpdateCard(s.opts.Card)

	if !holder.FormValid() {
		st = holder.State()
		fmt.Fprintf(s.out, "total %s\nfill in email, phone, address and a 16 digit card to place the order\n", money.Format(st.Total))
		return nil
	}
	order, err := holder.PlaceOrder(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "order №%d placed, total %s\n", order.ID, money.Format(holder.State().Total))
	return nil
}

func (s *shell) printProducts(products []types.Product) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tFAVORITE\tIN CART")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, money.Format(p.Price), mark(p.Favorite), mark(p.InCart))
	}
	_ = tw.Flush()
}

func (s *shell) printJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
