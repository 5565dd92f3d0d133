package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/profile"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

type profileRequest struct {
	Firstname string `json:"firstname" validate:"max=128"`
	Lastname  string `json:"lastname" validate:"max=128"`
	Address   string `json:"address" validate:"max=512"`
	Phone     string `json:"phone" validate:"max=32"`
	Photo     string `json:"photo"`
}

type profileResponse struct {
	Profile *supabase.Profile `json:"profile"`
	Exists  bool              `json:"exists"`
}

func ProfileGet(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		holder := profile.NewHolder(svc, middleware.SessionFromContext(r.Context()), logg)
		if err := holder.Load(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st := holder.State()
		responses.WriteSuccess(w, profileResponse{Profile: st.Profile, Exists: st.Exists})
	}
}

// ProfileUpdate saves the profile, creating the row on first save. An empty
// photo keeps the stored one.
func ProfileUpdate(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		var body profileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		holder := profile.NewHolder(svc, middleware.SessionFromContext(r.Context()), logg)
		if err := holder.Load(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := holder.Save(r.Context(), supabase.ProfileFields{
			Firstname: body.Firstname,
			Lastname:  body.Lastname,
			Address:   body.Address,
			Phone:     body.Phone,
			Photo:     body.Photo,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st := holder.State()
		responses.WriteSuccess(w, profileResponse{Profile: st.Profile, Exists: st.Exists})
	}
}
