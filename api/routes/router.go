package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ricemandi/cart-service/api/controllers"
	"github.com/ricemandi/cart-service/api/middleware"
	cartsvc "github.com/ricemandi/cart-service/internal/cart"
	checkoutsvc "github.com/ricemandi/cart-service/internal/checkout"
	"github.com/ricemandi/cart-service/internal/notifications"
	"github.com/ricemandi/cart-service/pkg/config"
	"github.com/ricemandi/cart-service/pkg/logger"
)

// RouterParams collects everything the HTTP surface needs. Pingers may be
// nil when the matching backend is not part of the deployment.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	Registry      *prometheus.Registry
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	Notifications notifications.Service
	SessionTokens *cartsvc.SessionTokens
	StorePingers  []controllers.Pinger
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.StorePingers...))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Post("/session", controllers.SessionIssue(params.SessionTokens, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(params.SessionTokens, cfg.Session.HeaderName, logg))

			r.Get("/", controllers.CartGet(params.Cart, logg))
			r.Delete("/", controllers.CartClear(params.Cart, logg))
			r.Post("/items", controllers.CartAddItem(params.Cart, logg))
			r.Put("/items/{id}", controllers.CartSetQuantity(params.Cart, logg))
			r.Delete("/items/{id}", controllers.CartRemoveItem(params.Cart, logg))
			r.Post("/checkout-draft", controllers.CartCheckoutDraft(params.Cart, params.Checkout, logg))
			r.Get("/notifications", controllers.CartNotifications(params.Notifications, logg))
		})
	})

	return r
}
