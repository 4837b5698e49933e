package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// Services bundles the application services the router dispatches to.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Wishlist *service.WishlistService
}

// RouterConfig holds the HTTP-level knobs.
type RouterConfig struct {
	ServiceName    string
	CORS           middleware.CORSConfig
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxyHops is the number of reverse proxies whose
	// X-Forwarded-For entries are believed.
	TrustedProxyHops int
	// CatalogMaxAge is the Cache-Control max-age, in seconds, for listing
	// and category responses. Zero disables the header.
	CatalogMaxAge int
}

// NewRouter creates a chi router with all storefront routes registered. ctx
// bounds background work started by middleware.
func NewRouter(
	ctx context.Context,
	svcs Services,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	productHandler := NewProductHandler(svcs.Catalog, svcs.Cart, svcs.Wishlist, logger)
	cartHandler := NewCartHandler(svcs.Cart, logger)
	wishlistHandler := NewWishlistHandler(svcs.Wishlist, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxyHops, logger))
		r.Use(ContentTypeJSON)

		// Listing and categories are the same for every client and carry no
		// session, so shared caches may store them.
		r.Group(func(r chi.Router) {
			if cfg.CatalogMaxAge > 0 {
				r.Use(middleware.CacheControl(cfg.CatalogMaxAge))
			}
			r.Use(middleware.RequestLogger(logger))

			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/categories", productHandler.ListCategories)
		})

		r.Group(func(r chi.Router) {
			r.Use(Session)
			r.Use(middleware.RequestLogger(logger))

			r.Get("/products/{id}", productHandler.GetProduct)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)

				r.Post("/items", cartHandler.AddItem)
				r.Post("/items/{id}/increment", cartHandler.IncrementItem)
				r.Post("/items/{id}/decrement", cartHandler.DecrementItem)
				r.Delete("/items/{id}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.GetWishlist)
				r.Post("/items", wishlistHandler.AddItem)
			})
		})
	})

	return r
}
