package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// CartResponse is the cart as rendered to clients, with derived totals.
type CartResponse struct {
	SessionID  string            `json:"session_id"`
	Items      []domain.CartItem `json:"items"`
	ItemCount  int               `json:"item_count"`
	TotalValue string            `json:"total_value"`
	Version    int               `json:"version"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponse{
		SessionID:  cart.SessionID,
		Items:      items,
		ItemCount:  cart.ItemCount(),
		TotalValue: cart.TotalValue().StringFixed(2),
		Version:    cart.Version,
		UpdatedAt:  cart.UpdatedAt,
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, newCartResponse(cart))
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context(), sessionID(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var input service.AddItemInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), sessionID(r), input.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, newCartResponse(cart))
}

// IncrementItem handles POST /api/v1/cart/items/{id}/increment
func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, domain.Increment)
}

// DecrementItem handles POST /api/v1/cart/items/{id}/decrement
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, domain.Decrement)
}

func (h *CartHandler) adjust(w http.ResponseWriter, r *http.Request, dir domain.Direction) {
	id, ok := httputil.ParseProductID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	cart, err := h.service.AdjustQuantity(r.Context(), sessionID(r), id, dir)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, newCartResponse(cart))
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseProductID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), sessionID(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, newCartResponse(cart))
}
