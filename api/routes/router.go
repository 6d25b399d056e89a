package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/quanganhtapcode/store/api/controllers"
	"github.com/quanganhtapcode/store/api/middleware"
	importsvc "github.com/quanganhtapcode/store/internal/imports"
	ordersvc "github.com/quanganhtapcode/store/internal/orders"
	statsvc "github.com/quanganhtapcode/store/internal/stats"
	"github.com/quanganhtapcode/store/pkg/config"
	"github.com/quanganhtapcode/store/pkg/db"
	"github.com/quanganhtapcode/store/pkg/logger"
	"github.com/quanganhtapcode/store/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *gorm.DB
	DBPinger db.Pinger
	// Redis is nil when no backend is configured; readiness then skips it.
	Redis    *redis.Client
	Orders   ordersvc.Service
	Imports  importsvc.Service
	Stats    statsvc.Service
	Registry *prometheus.Registry
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var redisP redis.Pinger
	if deps.Redis != nil {
		redisP = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisP))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
			r.Get("/{id}/items", controllers.GetOrderItems(deps.Orders, logg))

			// Mutating an existing ledger row needs an authenticated caller.
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.Auth, logg))
				r.Put("/{id}", controllers.UpdateOrder(deps.Orders, logg))
				r.Post("/{id}/cancel", controllers.CancelOrder(deps.Orders, logg))
				r.Delete("/{id}", controllers.DeleteOrder(deps.Orders, logg))
			})
		})

		r.Route("/imports", func(r chi.Router) {
			r.Post("/", controllers.CreateImport(deps.Imports, logg))
			r.Get("/", controllers.ListImports(deps.Imports, logg))
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", controllers.GetStats(deps.Stats, logg))
			r.Get("/monthly-products", controllers.MonthlyProducts(deps.Stats, logg))
		})

		r.Get("/activity", controllers.RecentActivity(deps.DB, logg))
	})

	return r
}
