package repository

import (
	"context"
	"errors"

	"github.com/utafrali/storefront/internal/domain"
)

// ErrCorrupt is returned by CartRepository.Get when a stored cart exists but
// cannot be decoded.
var ErrCorrupt = errors.New("stored cart is corrupt")

// CartRepository persists one cart per session.
type CartRepository interface {
	// Get returns the session's cart, a NotFound AppError when there is none,
	// or an error wrapping ErrCorrupt when the stored value is unreadable.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// SaveIfVersion stores cart only if the stored version still equals
	// expectedVersion (0 for "no cart yet"). On success cart.Version is
	// advanced to expectedVersion+1. It returns false when another writer got
	// there first.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes the session's cart. Deleting a missing cart is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// WishlistRepository keeps one append-only wishlist per session.
type WishlistRepository interface {
	// Add stores item unless its id is already present and reports whether it
	// was added.
	Add(ctx context.Context, sessionID string, item domain.WishlistItem) (bool, error)

	// List returns the items in insertion order, never nil.
	List(ctx context.Context, sessionID string) ([]domain.WishlistItem, error)

	// Exists reports whether productID is on the session's wishlist.
	Exists(ctx context.Context, sessionID string, productID int) (bool, error)
}
