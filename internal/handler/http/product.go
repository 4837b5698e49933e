package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/pagination"
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	catalog  *service.CatalogService
	cart     *service.CartService
	wishlist *service.WishlistService
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler. The cart and wishlist
// services annotate product detail with the session's state.
func NewProductHandler(catalog *service.CatalogService, cart *service.CartService, wishlist *service.WishlistService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		cart:     cart,
		wishlist: wishlist,
		logger:   logger,
	}
}

// ProductDetail is a product plus the current session's cart and wishlist
// state for it.
type ProductDetail struct {
	domain.Product
	CartQuantity int  `json:"cart_quantity"`
	InCart       bool `json:"in_cart"`
	InWishlist   bool `json:"in_wishlist"`
}

// ListProducts handles GET /api/v1/products?q=&cat=&sort=&page=&per_page=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ParseFilter(q)

	listing, err := h.catalog.List(r.Context(), filter, pagination.FromQuery(q))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, listing)
}

// ListCategories handles GET /api/v1/products/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, categories)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseProductID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sid := sessionID(r)
	cart, err := h.cart.GetCart(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	inWishlist, err := h.wishlist.Contains(r.Context(), sid, id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	qty := cart.Quantity(id)
	httputil.WriteData(w, http.StatusOK, ProductDetail{
		Product:      *product,
		CartQuantity: qty,
		InCart:       qty > 0,
		InWishlist:   inWishlist,
	})
}
