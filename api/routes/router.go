package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/app"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/session"
)

// Infra carries the shared plumbing. RateLimiter is nil when redis is not configured.
type Infra struct {
	Sessions    session.Store
	RateLimiter middleware.RateLimitStore
	Gatherer    prometheus.Gatherer
	Checks      map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc app.Services) http.Handler {
	if logg == nil {
		logg = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.BodyLimit(cfg.App.MaxBodyBytes),
	)

	signInPolicy := middleware.NewAuthRateLimitPolicy("signin", cfg.RateLimit.Window, cfg.RateLimit.IPLimit, cfg.RateLimit.EmailLimit)
	signUpPolicy := middleware.NewAuthRateLimitPolicy("signup", cfg.RateLimit.Window, cfg.RateLimit.IPLimit, cfg.RateLimit.EmailLimit)
	recoverPolicy := middleware.NewAuthRateLimitPolicy("recover", cfg.RateLimit.Window, cfg.RateLimit.IPLimit, cfg.RateLimit.EmailLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.Checks))
	})

	if infra.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	requireSession := middleware.Auth(infra.Sessions, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(signUpPolicy, infra.RateLimiter, logg)).Post("/signup", controllers.AuthSignUp(svc.Auth, logg))
			r.With(middleware.AuthRateLimit(signInPolicy, infra.RateLimiter, logg)).Post("/signin", controllers.AuthSignIn(svc.Auth, logg))
			r.With(middleware.AuthRateLimit(recoverPolicy, infra.RateLimiter, logg)).Post("/recover", controllers.AuthRecover(svc.Auth, logg))
			r.With(requireSession).Post("/signout", controllers.AuthSignOut(svc.Auth, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(infra.Sessions, logg))
			r.Get("/categories", controllers.CatalogCategories(svc.Catalog, logg))
			r.Get("/products", controllers.CatalogProducts(svc.Catalog, logg))
			r.Get("/products/{productId}", controllers.CatalogProduct(svc.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svc.Cart, logg))
				r.Post("/", controllers.CartAdd(svc.Cart, logg))
				r.Post("/{lineId}/increase", controllers.CartIncrease(svc.Cart, logg))
				r.Post("/{lineId}/decrease", controllers.CartDecrease(svc.Cart, logg))
				r.Delete("/{lineId}", controllers.CartDelete(svc.Cart, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoritesList(svc.Favorites, logg))
				r.Post("/", controllers.FavoritesAdd(svc.Favorites, logg))
				r.Delete("/{productId}", controllers.FavoritesRemove(svc.Favorites, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersHistory(svc.Orders, svc.Grouper, logg))
				r.Post("/{orderId}/repeat", controllers.OrdersRepeat(svc.Orders, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(svc.Profile, logg))
				r.Put("/", controllers.ProfileUpdate(svc.Profile, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutPrepare(svc.Checkout, logg))
				r.Post("/", controllers.CheckoutPlace(svc.Checkout, logg))
			})
		})
	})

	return r
}
