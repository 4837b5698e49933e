package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// WishlistService manages per-session wishlists.
type WishlistService struct {
	repo     repository.WishlistRepository
	products ProductLookup
	logger   *slog.Logger
	now      func() time.Time
}

// NewWishlistService creates a wishlist service.
func NewWishlistService(repo repository.WishlistRepository, products ProductLookup, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		products: products,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Add saves productID to the wishlist. Adding a saved product changes
// nothing. It returns the full wishlist.
func (s *WishlistService) Add(ctx context.Context, sessionID string, productID int) ([]domain.WishlistItem, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be a positive integer")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	added, err := s.repo.Add(ctx, sessionID, domain.WishlistItem{
		ID:      product.ID,
		Title:   product.Title,
		Price:   product.Price,
		AddedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}
	if added {
		s.logger.InfoContext(ctx, "item added to wishlist",
			slog.String("session_id", sessionID),
			slog.Int("product_id", productID),
		)
	}

	return s.List(ctx, sessionID)
}

// List returns the session's wishlist in the order items were added.
func (s *WishlistService) List(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	items, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return items, nil
}

// Contains reports whether productID is on the session's wishlist.
func (s *WishlistService) Contains(ctx context.Context, sessionID string, productID int) (bool, error) {
	ok, err := s.repo.Exists(ctx, sessionID, productID)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return ok, nil
}
