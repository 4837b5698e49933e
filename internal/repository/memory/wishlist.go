package memory

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// WishlistRepository keeps wishlists in process memory only; they are lost
// on restart.
type WishlistRepository struct {
	mu        sync.RWMutex
	wishlists map[string]*domain.Wishlist
}

// NewWishlistRepository creates an empty wishlist store.
func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{wishlists: make(map[string]*domain.Wishlist)}
}

// Add appends item to the session's wishlist unless already present.
func (r *WishlistRepository) Add(_ context.Context, sessionID string, item domain.WishlistItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wishlists[sessionID]
	if !ok {
		w = &domain.Wishlist{}
		r.wishlists[sessionID] = w
	}
	return w.Add(item), nil
}

// List returns a copy of the session's items.
func (r *WishlistRepository) List(_ context.Context, sessionID string) ([]domain.WishlistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.wishlists[sessionID]
	if !ok {
		return []domain.WishlistItem{}, nil
	}
	items := make([]domain.WishlistItem, len(w.Items))
	copy(items, w.Items)
	return items, nil
}

// Exists reports whether productID is on the session's wishlist.
func (r *WishlistRepository) Exists(_ context.Context, sessionID string, productID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.wishlists[sessionID]
	return ok && w.Contains(productID), nil
}
