package memory

import (
	"context"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

type cartEntry struct {
	cart      *domain.Cart
	expiresAt time.Time
}

// CartRepository implements repository.CartRepository in process memory.
// Entries expire ttl after their last save.
type CartRepository struct {
	mu    sync.Mutex
	carts map[string]cartEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewCartRepository creates an in-memory cart repository.
func NewCartRepository(ttl time.Duration) *CartRepository {
	return &CartRepository{
		carts: make(map[string]cartEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// lookup returns the live entry for sessionID, evicting it if expired.
// Callers hold mu.
func (r *CartRepository) lookup(sessionID string) (cartEntry, bool) {
	e, ok := r.carts[sessionID]
	if !ok {
		return cartEntry{}, false
	}
	if r.ttl > 0 && !r.now().Before(e.expiresAt) {
		delete(r.carts, sessionID)
		return cartEntry{}, false
	}
	return e, true
}

// Get returns a copy of the session's cart.
func (r *CartRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, apperrors.NotFound("cart", sessionID)
	}
	return e.cart.Clone(), nil
}

// SaveIfVersion stores a copy of cart when the stored version matches.
func (r *CartRepository) SaveIfVersion(_ context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := 0
	if e, ok := r.lookup(cart.SessionID); ok {
		current = e.cart.Version
	}
	if current != expectedVersion {
		return false, nil
	}

	cart.Version = expectedVersion + 1
	r.carts[cart.SessionID] = cartEntry{
		cart:      cart.Clone(),
		expiresAt: r.now().Add(r.ttl),
	}
	return true, nil
}

// Delete removes the session's cart.
func (r *CartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}
