package favorites

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/types"
)

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Backend Backend
}

// Service exposes the shopper's favorite products.
type Service interface {
	List(ctx context.Context, sess session.Session) ([]types.Product, error)
	ProductIDs(ctx context.Context, sess session.Session) (types.IDSet, error)
	Add(ctx context.Context, sess session.Session, productID string) error
	Remove(ctx context.Context, sess session.Session, productID string) error
}

type service struct {
	backend Backend
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites backend is required")
	}
	return &service{backend: params.Backend}, nil
}

// List returns the favorite products, each flagged as a favorite.
func (s *service) List(ctx context.Context, sess session.Session) ([]types.Product, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	rows, err := s.backend.Favourites(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		return nil, err
	}
	out := types.ProductsFromBackend(rows)
	for i := range out {
		out[i].Favorite = true
	}
	return out, nil
}

func (s *service) ProductIDs(ctx context.Context, sess session.Session) (types.IDSet, error) {
	items, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	ids := types.NewIDSet()
	for _, p := range items {
		ids.Add(p.ID)
	}
	return ids, nil
}

func (s *service) Add(ctx context.Context, sess session.Session, productID string) error {
	productID, err := checkArgs(sess, productID)
	if err != nil {
		return err
	}
	return s.backend.AddFavourite(ctx, sess.AccessToken, supabase.NewFavourite{
		UserID:    sess.UserID,
		ProductID: productID,
	})
}

func (s *service) Remove(ctx context.Context, sess session.Session, productID string) error {
	productID, err := checkArgs(sess, productID)
	if err != nil {
		return err
	}
	return s.backend.DeleteFavourite(ctx, sess.AccessToken, sess.UserID, productID)
}

func checkArgs(sess session.Session, productID string) (string, error) {
	if err := sess.Require(); err != nil {
		return "", err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return productID, nil
}
