package profile

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

const MsgCreateFailed = "could not create profile"

// Backend is the slice of the REST client profiles need.
type Backend interface {
	Profiles(ctx context.Context, token, userID string) ([]supabase.Profile, error)
	UpdateProfile(ctx context.Context, token, userID string, fields supabase.ProfileFields) ([]supabase.Profile, error)
	CreateProfile(ctx context.Context, token string, profile supabase.Profile) ([]supabase.Profile, error)
}

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	Backend Backend
	Logger  *logger.Logger
}

// Service reads and saves the shopper's profile row.
type Service interface {
	Get(ctx context.Context, sess session.Session) (supabase.Profile, bool, error)
	Save(ctx context.Context, sess session.Session, fields supabase.ProfileFields) (supabase.Profile, error)
}

type service struct {
	backend Backend
	logg    *logger.Logger
}

// NewService builds a profile service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile backend is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{backend: params.Backend, logg: logg}, nil
}

// Get returns the stored profile, or an empty placeholder and false when the
// shopper has not saved one yet.
func (s *service) Get(ctx context.Context, sess session.Session) (supabase.Profile, bool, error) {
	if err := sess.Require(); err != nil {
		return supabase.Profile{}, false, err
	}
	rows, err := s.backend.Profiles(ctx, sess.AccessToken, sess.UserID)
	if err != nil && !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return supabase.Profile{}, false, err
	}
	if len(rows) == 0 {
		s.logg.Debug(s.logg.WithUserID(ctx, sess.UserID), "profile not found, using placeholder")
		return supabase.Profile{UserID: sess.UserID}, false, nil
	}
	return rows[0], true, nil
}

// Save patches the profile row and creates it when the patch matched nothing.
func (s *service) Save(ctx context.Context, sess session.Session, fields supabase.ProfileFields) (supabase.Profile, error) {
	if err := sess.Require(); err != nil {
		return supabase.Profile{}, err
	}
	fields = trimFields(fields)

	rows, err := s.backend.UpdateProfile(ctx, sess.AccessToken, sess.UserID, fields)
	switch {
	case err == nil && len(rows) > 0:
		return rows[0], nil
	case err != nil && !pkgerrors.Is(err, pkgerrors.CodeNotFound):
		return supabase.Profile{}, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, sess.UserID), "profile row missing, creating")
	created, err := s.backend.CreateProfile(ctx, sess.AccessToken, supabase.Profile{
		UserID:    sess.UserID,
		Firstname: fields.Firstname,
		Lastname:  fields.Lastname,
		Address:   fields.Address,
		Phone:     fields.Phone,
		Photo:     fields.Photo,
	})
	if err != nil {
		return supabase.Profile{}, pkgerrors.Wrap(pkgerrors.CodeOf(err), err, MsgCreateFailed)
	}
	if len(created) == 0 {
		return supabase.Profile{}, pkgerrors.New(pkgerrors.CodeDependency, MsgCreateFailed)
	}
	return created[0], nil
}

func trimFields(f supabase.ProfileFields) supabase.ProfileFields {
	return supabase.ProfileFields{
		Firstname: strings.TrimSpace(f.Firstname),
		Lastname:  strings.TrimSpace(f.Lastname),
		Address:   strings.TrimSpace(f.Address),
		Phone:     strings.TrimSpace(f.Phone),
		Photo:     f.Photo,
	}
}
