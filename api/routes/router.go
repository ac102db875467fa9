package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gelvpress/gelv-backend/api/controllers"
	"github.com/gelvpress/gelv-backend/api/middleware"
	"github.com/gelvpress/gelv-backend/internal/cart"
	"github.com/gelvpress/gelv-backend/internal/catalog"
	"github.com/gelvpress/gelv-backend/internal/checkout"
	"github.com/gelvpress/gelv-backend/internal/ownership"
	"github.com/gelvpress/gelv-backend/pkg/config"
	"github.com/gelvpress/gelv-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	catalogService *catalog.Service,
	cartStore *cart.SessionStore,
	checkoutService *checkout.Service,
	ownershipResolver *ownership.Resolver,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Storefront surface: anonymous buyers get a cart session, logged-in
		// buyers reuse their token session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.JWT, logg))

			r.Get("/catalogue", controllers.CatalogueList(catalogService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartStore, logg))
				r.Get("/count", controllers.CartCount(cartStore, logg))
				r.Post("/issues", controllers.CartAddIssue(cartStore, catalogService, logg))
				r.Post("/subscriptions", controllers.CartAddSubscription(cartStore, catalogService, logg))
				r.Post("/remove", controllers.CartRemove(cartStore, logg))
				r.Post("/edit", controllers.CartEditMeta(cartStore, logg))
				r.Delete("/", controllers.CartClear(cartStore, logg))
			})

			r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/library", controllers.LibraryList(ownershipResolver, logg))
			r.Get("/issues/{issueId}/download", controllers.IssueDownload(ownershipResolver, catalogService, cfg.Storage, logg))
			r.Post("/payments/{paymentId}/confirm", controllers.PaymentConfirm(checkoutService, logg))
		})
	})

	return r
}
