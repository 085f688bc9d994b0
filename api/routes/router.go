package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solenne-shop/solenne-backend/api/controllers"
	"github.com/solenne-shop/solenne-backend/api/middleware"
	catalogsvc "github.com/solenne-shop/solenne-backend/internal/catalog"
	ordersvc "github.com/solenne-shop/solenne-backend/internal/orders"
	statssvc "github.com/solenne-shop/solenne-backend/internal/stats"
	storefrontsvc "github.com/solenne-shop/solenne-backend/internal/storefront"
	"github.com/solenne-shop/solenne-backend/pkg/cache"
	"github.com/solenne-shop/solenne-backend/pkg/config"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
	"github.com/solenne-shop/solenne-backend/pkg/metrics"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Revalidator *cache.Revalidator
	Pingers     map[string]controllers.Pinger

	Catalog    catalogsvc.Service
	Storefront storefrontsvc.Service
	Orders     ordersvc.Service
	Stats      statssvc.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(deps.Logger, deps.Pingers))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListStorefrontProducts(deps.Storefront, deps.Revalidator, deps.Logger))
		r.Get("/{slug}", controllers.GetStorefrontProduct(deps.Storefront, deps.Revalidator, deps.Logger))
		r.Post("/{slug}/match", controllers.MatchStorefrontVariant(deps.Storefront, deps.Logger))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(deps.Config.JWT, deps.Logger))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.Catalog, deps.Logger))
			r.Post("/", controllers.AdminCreateProduct(deps.Catalog, deps.Logger))
			r.Get("/{id}", controllers.AdminGetProduct(deps.Catalog, deps.Logger))
			r.Put("/{id}", controllers.AdminUpdateProduct(deps.Catalog, deps.Logger))
			r.Delete("/{id}", controllers.AdminDeleteProduct(deps.Catalog, deps.Logger))
		})

		r.Route("/attributes", func(r chi.Router) {
			r.Get("/", controllers.AdminListAttributes(deps.Catalog, deps.Logger))
			r.Post("/", controllers.AdminCreateAttribute(deps.Catalog, deps.Logger))
			r.Get("/{id}", controllers.AdminGetAttribute(deps.Catalog, deps.Logger))
			r.Put("/{id}", controllers.AdminUpdateAttribute(deps.Catalog, deps.Logger))
			r.Delete("/{id}", controllers.AdminDeleteAttribute(deps.Catalog, deps.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, deps.Logger))
			r.Get("/{id}", controllers.AdminGetOrder(deps.Orders, deps.Logger))
			r.Patch("/{id}", controllers.AdminUpdateOrderStatus(deps.Orders, deps.Logger))
			r.Delete("/{id}", controllers.AdminDeleteOrder(deps.Orders, deps.Logger))
		})

		r.Get("/stats", controllers.AdminDashboardStats(deps.Stats, deps.Logger))
	})

	return r
}
