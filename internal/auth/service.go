package auth

import (
	"context"
	"strings"
	"time"

	pkgauth "github.com/angelmondragon/storefront/pkg/auth"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/validation"
)

// probePassword is sent by CheckUserExists; a wrong-password answer means the account exists.
const probePassword = "dummy_password_check"

// Backend is the slice of the REST client authentication needs.
type Backend interface {
	SignUp(ctx context.Context, creds supabase.Credentials) (*supabase.AuthResponse, error)
	SignIn(ctx context.Context, creds supabase.Credentials) (*supabase.AuthResponse, error)
	Recover(ctx context.Context, email string) error
}

// Service defines sign-up, sign-in and password recovery.
type Service interface {
	SignUp(ctx context.Context, form validation.SignUpForm) (session.Session, error)
	SignIn(ctx context.Context, form validation.SignInForm) (session.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	CheckUserExists(ctx context.Context, email string) (bool, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
// Sessions is optional; when set, signed-in sessions are saved there.
type ServiceParams struct {
	Backend   Backend
	Validator *validation.Validator
	Cooldown  Cooldown
	Sessions  session.Store
	JWTSecret string
	Logger    *logger.Logger
}

type service struct {
	backend   Backend
	validator *validation.Validator
	cooldown  Cooldown
	sessions  session.Store
	jwtSecret string
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auth backend is required")
	}
	if params.Validator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validator is required")
	}
	cooldown := params.Cooldown
	if cooldown == nil {
		cooldown = NewMemoryCooldown(0)
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		backend:   params.Backend,
		validator: params.Validator,
		cooldown:  cooldown,
		sessions:  params.Sessions,
		jwtSecret: params.JWTSecret,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) SignUp(ctx context.Context, form validation.SignUpForm) (session.Session, error) {
	email := strings.TrimSpace(form.Email)
	for _, msg := range []string{
		s.validator.Name(form.Name),
		s.validator.Email(email),
		s.validator.Password(form.Password),
	} {
		if msg != "" {
			return session.Session{}, pkgerrors.New(pkgerrors.CodeValidation, msg)
		}
	}

	resp, err := s.backend.SignUp(ctx, supabase.Credentials{Email: email, Password: form.Password})
	if err != nil {
		s.logg.Warn(ctx, "sign up rejected: "+err.Error())
		return session.Session{}, signUpError(err, s.validator.MinPasswordLength())
	}
	return s.open(ctx, resp, email)
}

func (s *service) SignIn(ctx context.Context, form validation.SignInForm) (session.Session, error) {
	email := strings.TrimSpace(form.Email)
	if email == "" || strings.TrimSpace(form.Password) == "" {
		return session.Session{}, pkgerrors.New(pkgerrors.CodeValidation, validation.MsgFieldsRequired)
	}

	resp, err := s.backend.SignIn(ctx, supabase.Credentials{Email: email, Password: form.Password})
	if err != nil {
		s.logg.Warn(ctx, "sign in rejected: "+err.Error())
		return session.Session{}, signInError(err)
	}
	return s.open(ctx, resp, email)
}

func (s *service) SignOut(ctx context.Context, sessionID string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// CheckUserExists probes the password grant with a throwaway password. A
// wrong-credentials answer means the account exists, in which case a reset
// email is sent right away.
func (s *service) CheckUserExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, MsgEmailRequired)
	}

	_, err := s.backend.SignIn(ctx, supabase.Credentials{Email: email, Password: probePassword})
	apiErr, isAPI := supabase.AsAPIError(err)
	switch {
	case err == nil:
		return true, s.SendPasswordReset(ctx, email)
	case isAPI && (apiErr.Contains("invalid_grant") || apiErr.Status == 400):
		return true, s.SendPasswordReset(ctx, email)
	case isAPI:
		return false, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, MsgUserNotFound)
	default:
		return false, err
	}
}

// SendPasswordReset emails a reset link unless one went to the same address
// within the cooldown window.
func (s *service) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if msg := s.validator.Email(email); msg != "" {
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}

	ok, left, err := s.cooldown.Acquire(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cooldown unavailable")
	}
	if !ok {
		seconds := int((left + time.Second - 1) / time.Second)
		return pkgerrors.New(pkgerrors.CodeRateLimit, msgResetCooldown(seconds)).
			WithDetails(map[string]any{"retry_after_seconds": seconds})
	}

	if err := s.backend.Recover(ctx, email); err != nil {
		s.logg.Warn(ctx, "password reset failed: "+err.Error())
		return resetError(err)
	}
	s.logg.Info(ctx, "password reset email sent")
	return nil
}

func (s *service) open(ctx context.Context, resp *supabase.AuthResponse, email string) (session.Session, error) {
	if resp == nil || strings.TrimSpace(resp.UserID()) == "" {
		return session.Session{}, pkgerrors.New(pkgerrors.CodeDependency, MsgNoUserID)
	}
	if e := resp.UserEmail(); e != "" {
		email = e
	}
	sess := session.New(resp.UserID(), email, resp.AccessToken, s.expiry(ctx, resp))

	if s.sessions != nil {
		if err := s.sessions.Save(ctx, sess); err != nil {
			return session.Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
		}
	}
	s.logg.Info(s.logg.WithUserID(ctx, sess.UserID), "shopper signed in")
	return sess, nil
}

// expiry prefers the token's exp claim and falls back to expires_in.
func (s *service) expiry(ctx context.Context, resp *supabase.AuthResponse) time.Time {
	if resp.AccessToken != "" {
		claims, err := pkgauth.ParseAccessToken(resp.AccessToken, s.jwtSecret)
		if err == nil && !claims.ExpiresAt.IsZero() {
			return claims.ExpiresAt
		}
		if err != nil {
			s.logg.Debug(ctx, "access token claims unreadable: "+err.Error())
		}
	}
	if resp.ExpiresIn > 0 {
		return s.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return time.Time{}
}
