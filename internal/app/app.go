package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/favorites"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/profile"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/redis"
	"github.com/angelmondragon/storefront/pkg/session"
	"github.com/angelmondragon/storefront/pkg/supabase"
	"github.com/angelmondragon/storefront/pkg/validation"
)

// Services are the feature services shared by the gateway and the CLI.
type Services struct {
	Auth      auth.Service
	Catalog   catalog.Service
	Cart      cart.Service
	Favorites favorites.Service
	Orders    orders.Service
	Grouper   *orders.Grouper
	Profile   profile.Service
	Checkout  checkout.Service
}

// Params are the already-built dependencies the services need.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Backend  *supabase.Client
	Sessions session.Store
	Cooldown auth.Cooldown
}

// NewServices wires every feature service against one backend client.
func NewServices(p Params) (Services, error) {
	if p.Config == nil {
		return Services{}, pkgerrors.New(pkgerrors.CodeValidation, "config is required")
	}
	if p.Backend == nil {
		return Services{}, pkgerrors.New(pkgerrors.CodeValidation, "backend client is required")
	}
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	cfg := p.Config
	validator := validation.New(cfg.Shop.MinPasswordLength)

	cooldown := p.Cooldown
	if cooldown == nil {
		cooldown = auth.NewMemoryCooldown(cfg.Shop.ResetCooldown)
	}

	authSvc, err := auth.NewService(auth.ServiceParams{
		Backend:   p.Backend,
		Validator: validator,
		Cooldown:  cooldown,
		Sessions:  p.Sessions,
		JWTSecret: cfg.Backend.JWTSecret,
		Logger:    logg,
	})
	if err != nil {
		return Services{}, err
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Backend: p.Backend,
		Pricing: cart.NewPricing(cfg.Shop.Delivery()),
		Logger:  logg,
	})
	if err != nil {
		return Services{}, err
	}

	favSvc, err := favorites.NewService(favorites.ServiceParams{Backend: p.Backend})
	if err != nil {
		return Services{}, err
	}

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Backend:   p.Backend,
		Favorites: favSvc,
		Cart:      cartSvc,
		Logger:    logg,
	})
	if err != nil {
		return Services{}, err
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{Backend: p.Backend, Cart: cartSvc, Logger: logg})
	if err != nil {
		return Services{}, err
	}

	profileSvc, err := profile.NewService(profile.ServiceParams{Backend: p.Backend, Logger: logg})
	if err != nil {
		return Services{}, err
	}

	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Profiles:  profileSvc,
		Cart:      cartSvc,
		Orders:    ordersSvc,
		Validator: validator,
		Logger:    logg,
	})
	if err != nil {
		return Services{}, err
	}

	return Services{
		Auth:      authSvc,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Favorites: favSvc,
		Orders:    ordersSvc,
		Grouper:   orders.NewGrouper(cfg.Shop.Location(), cfg.Shop.RecentWindow, logg),
		Profile:   profileSvc,
		Checkout:  checkoutSvc,
	}, nil
}

// Runtime is everything a process builds from config: clients, stores and services.
type Runtime struct {
	Config   *config.Config
	Logger   *logger.Logger
	Backend  *supabase.Client
	Redis    *redis.Client
	Sessions session.Store
	Toggles  *metrics.ToggleMetrics
	Services Services
}

// Open connects redis when configured, picks the session store and builds the services.
// reg may be nil to skip metric registration.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger, reg prometheus.Registerer) (*Runtime, error) {
	if cfg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	rt := &Runtime{Config: cfg, Logger: logg, Toggles: metrics.NewToggleMetrics(reg)}

	backend, err := supabase.NewClient(cfg.Backend.URL, cfg.Backend.APIKey,
		supabase.WithTimeout(cfg.Backend.Timeout),
		supabase.WithMetrics(metrics.NewBackendMetrics(reg)),
		supabase.WithLogger(logg),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build backend client")
	}
	rt.Backend = backend

	var cooldown auth.Cooldown
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "connect redis")
		}
		rt.Redis = client
		cooldown = auth.NewRedisCooldown(client, cfg.Shop.ResetCooldown)
	}

	if cfg.Session.UsesRedis() && rt.Redis != nil {
		store, err := session.NewRedisStore(rt.Redis, cfg.Session.TTL)
		if err != nil {
			return nil, multierr.Append(err, rt.Close())
		}
		rt.Sessions = store
	} else {
		rt.Sessions = session.NewMemoryStore(cfg.Session.TTL)
	}

	services, err := NewServices(Params{
		Config:   cfg,
		Logger:   logg,
		Backend:  backend,
		Sessions: rt.Sessions,
		Cooldown: cooldown,
	})
	if err != nil {
		return nil, multierr.Append(err, rt.Close())
	}
	rt.Services = services
	return rt, nil
}

// Close releases the clients the runtime opened.
func (r *Runtime) Close() error {
	var errs error
	if r.Redis != nil {
		errs = multierr.Append(errs, r.Redis.Close())
	}
	return errs
}
