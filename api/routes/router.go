package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/shopper-backend/api/controllers"
	"github.com/angelmondragon/shopper-backend/api/middleware"
	"github.com/angelmondragon/shopper-backend/api/responses"
	"github.com/angelmondragon/shopper-backend/internal/auth"
	"github.com/angelmondragon/shopper-backend/internal/catalog"
	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/internal/stores"
	"github.com/angelmondragon/shopper-backend/pkg/auth/session"
	"github.com/angelmondragon/shopper-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
	"github.com/angelmondragon/shopper-backend/pkg/metrics"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Dependencies carries everything the router hands to controllers and
// middleware. Nil pingers are skipped by the readiness probe.
type Dependencies struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	RateLimiter rateLimiter
	Sessions    sessionManager

	Auth      auth.Service
	Stores    stores.Service
	Products  products.Service
	Catalog   catalog.Service
	Proximity controllers.ProximityResolver

	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	// Load has already rejected malformed entries.
	trustedProxies, _ := cfg.HTTP.TrustedProxyPrefixes()

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RealIP(trustedProxies),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "method not allowed"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	signInPolicy := middleware.NewRateLimitPolicy("signin", cfg.AuthRateLimit.SignInWindow, cfg.AuthRateLimit.SignInIPLimit)
	nearbyPolicy := middleware.NewRateLimitPolicy("nearby", cfg.Proximity.RateLimitWindow, cfg.Proximity.RateLimit)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(signInPolicy, deps.RateLimiter, middleware.ByClientIP, logg)).
			Post("/google", controllers.AuthGoogle(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.With(middleware.RateLimit(nearbyPolicy, deps.RateLimiter, middleware.ByUser, logg)).
			Get("/nearby", controllers.Nearby(deps.Proximity, cfg.Proximity.NearbyRadiusMeters, logg))
		r.Get("/stores/nearby", controllers.StoresNearby(deps.Proximity, cfg.Proximity.NearbyRadiusMeters, cfg.Proximity.MaxRadiusMeters, logg))
		r.Get("/all", controllers.CatalogAll(deps.Catalog, logg))

		r.Post("/store", controllers.StoreCreate(deps.Stores, logg))
		r.Get("/stores/{storeId}", controllers.StoreGet(deps.Stores, logg))
		r.Post("/stores/{storeId}/track", controllers.StoreTrack(deps.Stores, logg))

		r.Post("/product", controllers.ProductCreate(deps.Products, logg))
		r.Post("/store-products", controllers.StoreProductsCreate(deps.Products, logg))
	})

	return r
}
