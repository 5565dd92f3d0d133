package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	mu         sync.Mutex
	signUpResp *supabase.AuthResponse
	signUpErr  error
	signInResp *supabase.AuthResponse
	signInErr  error
	recoverErr error
	recovered  []string
	passwords  []string
}

func (s *stubBackend) SignUp(_ context.Context, _ supabase.Credentials) (*supabase.AuthResponse, error) {
	return s.signUpResp, s.signUpErr
}

func (s *stubBackend) SignIn(_ context.Context, creds supabase.Credentials) (*supabase.AuthResponse, error) {
	s.mu.Lock()
	s.passwords = append(s.passwords, creds.Password)
	s.mu.Unlock()
	return s.signInResp, s.signInErr
}

func (s *stubBackend) Recover(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recoverErr != nil {
		return s.recoverErr
	}
	s.recovered = append(s.recovered, email)
	return nil
}

func backendErr(status int, body string) error {
	apiErr := &supabase.APIError{Status: status, Body: body}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, apiErr, "POST auth failed")
}

func newAuthService(t *testing.T, backend *stubBackend, params ServiceParams) Service {
	t.Helper()
	params.Backend = backend
	if params.Validator == nil {
		params.Validator = validation.New(6)
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc
}

func signedToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"email": "a@b.ru",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestSignInOpensAndSavesSession(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	backend := &stubBackend{signInResp: &supabase.AuthResponse{
		AccessToken: signedToken(t, "secret", exp),
		User:        &supabase.User{ID: "u1", Email: "a@b.ru"},
	}}
	store := session.NewMemoryStore(time.Hour)
	svc := newAuthService(t, backend, ServiceParams{Sessions: store, JWTSecret: "secret"})

	sess, err := svc.SignIn(context.Background(), validation.SignInForm{Email: " a@b.ru ", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "u1", sess.UserID)
	require.NotEmpty(t, sess.ID)
	require.True(t, sess.ExpiresAt.Equal(exp))

	loaded, err := store.Load(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Equal(t, sess.AccessToken, loaded.AccessToken)

	require.NoError(t, svc.SignOut(context.Background(), sess.ID))
	_, err = store.Load(context.Background(), sess.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSignInErrorMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "invalid grant", err: backendErr(400, `{"error":"invalid_grant"}`), want: MsgInvalidCredentials},
		{name: "unauthorized", err: backendErr(401, `{}`), want: MsgAuthFailed},
		{name: "rate limited", err: backendErr(429, `{}`), want: MsgTooManyAttempts},
		{name: "server", err: backendErr(503, `{}`), want: "server error: 503"},
		{name: "network", err: pkgerrors.Wrap(pkgerrors.CodeNetwork, errors.New("dial"), "execute"), want: "network error"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := newAuthService(t, &stubBackend{signInErr: tc.err}, ServiceParams{})
			_, err := svc.SignIn(context.Background(), validation.SignInForm{Email: "a@b.ru", Password: "secret1"})
			require.Equal(t, tc.want, pkgerrors.Display(err))
		})
	}
}

func TestSignInRequiresFields(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	svc := newAuthService(t, backend, ServiceParams{})
	_, err := svc.SignIn(context.Background(), validation.SignInForm{Email: "a@b.ru"})
	require.Equal(t, validation.MsgFieldsRequired, pkgerrors.Display(err))
	require.Empty(t, backend.passwords)
}

func TestSignInWithoutUserID(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, &stubBackend{signInResp: &supabase.AuthResponse{AccessToken: "x"}}, ServiceParams{})
	_, err := svc.SignIn(context.Background(), validation.SignInForm{Email: "a@b.ru", Password: "secret1"})
	require.Equal(t, MsgNoUserID, pkgerrors.Display(err))
}

func TestSignUpValidatesBeforeCalling(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, &stubBackend{}, ServiceParams{})
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validation.SignUpForm{Name: " ", Email: "a@b.ru", Password: "secret1"})
	require.Equal(t, validation.MsgNameEmpty, pkgerrors.Display(err))

	_, err = svc.SignUp(ctx, validation.SignUpForm{Name: "Ann", Email: "Bad@", Password: "secret1"})
	require.Equal(t, validation.MsgEmailFormat, pkgerrors.Display(err))

	_, err = svc.SignUp(ctx, validation.SignUpForm{Name: "Ann", Email: "a@b.ru", Password: "123"})
	require.Equal(t, "password must be at least 6 characters", pkgerrors.Display(err))
}

func TestSignUpErrorMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "email invalid", err: backendErr(400, `{"error_code":"email_address_invalid"}`), want: MsgEmailTooShort},
		{name: "exists", err: backendErr(422, `{"error_code":"user_already_exists"}`), want: MsgAlreadyRegistered},
		{name: "registered text", err: backendErr(400, `{"msg":"User already registered"}`), want: MsgAlreadyRegistered},
		{name: "weak", err: backendErr(422, `{"error_code":"weak_password"}`), want: "password is too short, minimum length is 6 characters"},
		{name: "rate", err: backendErr(429, `{"error_code":"over_email_send_rate_limit"}`), want: MsgSignUpRateLimit},
		{name: "bad request", err: backendErr(400, `{}`), want: MsgInvalidData},
		{name: "unprocessable", err: backendErr(422, `{}`), want: MsgAlreadyRegistered},
		{name: "server", err: backendErr(500, ``), want: "server error: 500"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := newAuthService(t, &stubBackend{signUpErr: tc.err}, ServiceParams{})
			_, err := svc.SignUp(context.Background(), validation.SignUpForm{Name: "Ann", Email: "a@b.ru", Password: "secret1"})
			require.Equal(t, tc.want, pkgerrors.Display(err))
		})
	}
}

func TestSignUpUsesTopLevelID(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, &stubBackend{signUpResp: &supabase.AuthResponse{ID: "u9", ExpiresIn: 3600}}, ServiceParams{})
	sess, err := svc.SignUp(context.Background(), validation.SignUpForm{Name: "Ann", Email: "a@b.ru", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "u9", sess.UserID)
	require.Equal(t, "a@b.ru", sess.Email)
	require.False(t, sess.ExpiresAt.IsZero())
}

func TestCheckUserExists(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{signInErr: backendErr(400, `{"error":"invalid_grant"}`)}
	svc := newAuthService(t, backend, ServiceParams{})

	exists, err := svc.CheckUserExists(context.Background(), "a@b.ru")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, []string{probePassword}, backend.passwords)
	require.Equal(t, []string{"a@b.ru"}, backend.recovered)

	backend.signInErr = backendErr(404, `{}`)
	exists, err = svc.CheckUserExists(context.Background(), "c@d.ru")
	require.False(t, exists)
	require.Equal(t, MsgUserNotFound, pkgerrors.Display(err))

	_, err = svc.CheckUserExists(context.Background(), " ")
	require.Equal(t, MsgEmailRequired, pkgerrors.Display(err))
}

func TestSendPasswordResetCooldown(t *testing.T) {
	t.Parallel()

	cooldown := NewMemoryCooldown(time.Minute)
	now := time.Date(2025, 12, 18, 12, 0, 0, 0, time.UTC)
	cooldown.now = func() time.Time { return now }
	backend := &stubBackend{}
	svc := newAuthService(t, backend, ServiceParams{Cooldown: cooldown})
	ctx := context.Background()

	require.NoError(t, svc.SendPasswordReset(ctx, "a@b.ru"))

	now = now.Add(15 * time.Second)
	err := svc.SendPasswordReset(ctx, "a@b.ru")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeRateLimit))
	require.Equal(t, "wait 45 seconds before requesting another email", pkgerrors.Display(err))
	require.Len(t, backend.recovered, 1)

	now = now.Add(45 * time.Second)
	require.NoError(t, svc.SendPasswordReset(ctx, "a@b.ru"))
	require.Len(t, backend.recovered, 2)
}

func TestSendPasswordResetErrors(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		429: MsgResetAlreadySent,
		404: MsgResetUserMissing,
		500: "could not send email: 500",
	}
	for status, want := range cases {
		svc := newAuthService(t, &stubBackend{recoverErr: backendErr(status, `{}`)}, ServiceParams{})
		err := svc.SendPasswordReset(context.Background(), "a@b.ru")
		require.Equal(t, want, pkgerrors.Display(err))
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Backend: &stubBackend{}})
	require.Error(t, err)
}
