package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/revendedor/painel-backend/api/controllers"
	dashboardcontrollers "github.com/revendedor/painel-backend/api/controllers/dashboard"
	inventorycontrollers "github.com/revendedor/painel-backend/api/controllers/inventory"
	ordercontrollers "github.com/revendedor/painel-backend/api/controllers/orders"
	"github.com/revendedor/painel-backend/api/middleware"
	"github.com/revendedor/painel-backend/internal/dashboard"
	"github.com/revendedor/painel-backend/internal/inventory"
	"github.com/revendedor/painel-backend/internal/orders"
	"github.com/revendedor/painel-backend/internal/packages"
	"github.com/revendedor/painel-backend/internal/resellers"
	"github.com/revendedor/painel-backend/pkg/config"
	"github.com/revendedor/painel-backend/pkg/logger"
	pkgredis "github.com/revendedor/painel-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface is built from.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Location *time.Location

	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency pkgredis.IdempotencyStore
	Gatherer    prometheus.Gatherer

	Resellers resellers.Service
	Orders    orders.Service
	Inventory inventory.Service
	Packages  packages.Service
	Dashboard dashboard.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.ResellerContext(p.Resellers, logg))
		if cfg.FeatureFlags.Idempotency {
			r.Use(middleware.Idempotency(p.Idempotency, cfg.Idempotency.TTL, logg))
		}

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(p.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(p.Orders, logg))
			r.Get("/{orderId}/stock-check", ordercontrollers.StockCheck(p.Orders, logg))
			r.Post("/{orderId}/accept", ordercontrollers.Accept(p.Orders, loc, logg))
			r.Post("/{orderId}/reject", ordercontrollers.Reject(p.Orders, logg))
			r.Post("/{orderId}/status", ordercontrollers.Advance(p.Orders, logg))
		})

		r.Route("/v1/inventory", func(r chi.Router) {
			r.Get("/", inventorycontrollers.List(p.Inventory, logg))
			r.Post("/", inventorycontrollers.Add(p.Inventory, logg))
			r.Patch("/{itemId}/stock", inventorycontrollers.AdjustStock(p.Inventory, logg))
			r.Patch("/{itemId}/price", inventorycontrollers.UpdatePrice(p.Inventory, logg))
			r.Patch("/{itemId}/status", inventorycontrollers.OverrideStatus(p.Inventory, logg))
			r.Delete("/{itemId}", inventorycontrollers.Delete(p.Inventory, logg))
		})

		r.Get("/v1/packages", controllers.PackageList(p.Packages, logg))

		r.Route("/v1/reseller", func(r chi.Router) {
			r.Get("/freight", controllers.FreightGet(p.Resellers, logg))
			r.Put("/freight", controllers.FreightUpdate(p.Resellers, logg))
		})

		r.Route("/v1/dashboard", func(r chi.Router) {
			r.Get("/summary", dashboardcontrollers.Summary(p.Dashboard, logg))
			r.Get("/recent-sales", dashboardcontrollers.RecentSales(p.Dashboard, logg))
			r.Get("/monthly-sales", dashboardcontrollers.MonthlySales(p.Dashboard, loc, logg))
		})
	})

	return r
}
