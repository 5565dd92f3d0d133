package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type addCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0,max=99"`
}

type cartResponse struct {
	Lines   []cart.Line  `json:"lines"`
	Summary cart.Summary `json:"summary"`
}

func newCartResponse(st cart.State) cartResponse {
	lines := st.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{Lines: lines, Summary: st.Summary}
}

// loadCart builds a request-scoped holder so line mutations follow the same
// rules as the interactive client.
func loadCart(ctx context.Context, svc cart.Service, logg *logger.Logger) (*cart.Holder, error) {
	holder := cart.NewHolder(svc, middleware.SessionFromContext(ctx), logg)
	if err := holder.Load(ctx); err != nil {
		return nil, err
	}
	return holder, nil
}

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		holder, err := loadCart(r.Context(), svc, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(holder.State()))
	}
}

func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body addCartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		if err := svc.Add(r.Context(), sess, body.ProductID, body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		holder, err := loadCart(r.Context(), svc, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(holder.State()))
	}
}

// CartIncrease, CartDecrease and CartDelete share the load-then-mutate flow.
func CartIncrease(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineAction(svc, logg, (*cart.Holder).Increase)
}

func CartDecrease(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineAction(svc, logg, (*cart.Holder).Decrease)
}

func CartDelete(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartLineAction(svc, logg, (*cart.Holder).Delete)
}

func cartLineAction(svc cart.Service, logg *logger.Logger, action func(*cart.Holder, context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID, err := validators.PathParam(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		holder, err := loadCart(r.Context(), svc, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := action(holder, r.Context(), lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(holder.State()))
	}
}
