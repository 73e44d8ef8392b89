package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rafaelqueiroz/charges-backend/api/controllers"
	"github.com/rafaelqueiroz/charges-backend/api/middleware"
	"github.com/rafaelqueiroz/charges-backend/internal/charges"
	"github.com/rafaelqueiroz/charges-backend/internal/customers"
	"github.com/rafaelqueiroz/charges-backend/pkg/config"
	"github.com/rafaelqueiroz/charges-backend/pkg/logger"
)

// Pinger reports backing-store reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter assembles the full HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db Pinger,
	customersSvc customers.Service,
	chargesSvc charges.Service,
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
		r.Get("/ready", controllers.HealthReady(cfg, db, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/customer", func(r chi.Router) {
			r.Post("/", controllers.CustomerCreate(customersSvc, logg))
			r.Get("/", controllers.CustomerList(customersSvc, logg))
			r.Get("/{id}", controllers.CustomerGet(customersSvc, logg))
			r.Patch("/{id}", controllers.CustomerUpdate(customersSvc, logg))
			r.Delete("/{id}", controllers.CustomerDelete(customersSvc, logg))
		})

		r.Route("/charge", func(r chi.Router) {
			r.Post("/", controllers.ChargeCreate(chargesSvc, logg))
			r.Get("/", controllers.ChargeList(chargesSvc, logg))
			r.Post("/paginated", controllers.ChargePaginated(chargesSvc, logg))
			r.Post("/expire-overdue", controllers.ChargeExpireOverdue(chargesSvc, logg))
			r.Get("/customer/{customerId}", controllers.ChargeListByCustomer(chargesSvc, logg))
			r.Get("/{id}", controllers.ChargeGet(chargesSvc, logg))
			r.Patch("/{id}/status/{status}", controllers.ChargeUpdateStatus(chargesSvc, logg))
			r.Delete("/{id}", controllers.ChargeDelete(chargesSvc, logg))
		})
	})

	return r
}
