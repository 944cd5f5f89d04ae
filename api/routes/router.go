package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feastly-app/feastly-backend/api/controllers"
	cartcontrollers "github.com/feastly-app/feastly-backend/api/controllers/cart"
	merchantcontrollers "github.com/feastly-app/feastly-backend/api/controllers/merchants"
	"github.com/feastly-app/feastly-backend/api/middleware"
	"github.com/feastly-app/feastly-backend/internal/cartlines"
	"github.com/feastly-app/feastly-backend/internal/merchants"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cartService cartlines.Service,
	merchantService merchants.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/merchants", func(r chi.Router) {
		r.Get("/nearby", merchantcontrollers.Nearby(merchantService, logg))
		r.Get("/deliverable", merchantcontrollers.Deliverable(merchantService, logg))
		r.Get("/{merchantId}/delivers", merchantcontrollers.Delivers(merchantService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg, cfg.Cart.IdempotencyTTL))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/cart", func(r chi.Router) {
			cartWrites := middleware.NewWriteRateLimitPolicy(
				"cart",
				cfg.Cart.RateLimitWindow,
				cfg.Cart.RateLimitPerCustomer,
				cfg.Cart.RateLimitPerIP,
			)
			r.Use(middleware.WriteRateLimit(cartWrites, redisClient, logg))

			r.Get("/", cartcontrollers.Fetch(cartService, logg))
			r.Post("/items", cartcontrollers.AddLine(cartService, logg))
			r.Patch("/items/{lineId}", cartcontrollers.UpdateLine(cartService, logg))
			r.Delete("/items/{lineId}", cartcontrollers.RemoveLine(cartService, logg))
		})
	})

	return r
}
