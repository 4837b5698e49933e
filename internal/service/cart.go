package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Cart limits.
const (
	// MaxQuantityPerItem is the largest quantity a single line may reach.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the largest number of distinct lines.
	MaxItemsPerCart = 50
)

// EventPublisher announces cart changes.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, cart *domain.Cart) error
	PublishCartCleared(ctx context.Context, sessionID string) error
}

// ProductLookup resolves a product id to its catalog entry.
type ProductLookup interface {
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
}

// AddItemInput is the body of an add-to-cart or add-to-wishlist request.
type AddItemInput struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

// CartService implements cart operations. Every mutation loads the cart,
// changes it and saves it only if nobody else saved in between.
type CartService struct {
	repo     repository.CartRepository
	products ProductLookup
	events   EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewCartService creates a cart service.
func NewCartService(repo repository.CartRepository, products ProductLookup, events EventPublisher, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetCart returns the session's cart, or an empty one if it has none or the
// stored cart cannot be read.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	switch {
	case err == nil:
		return cart, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return domain.NewCart(sessionID, s.now()), nil
	case errors.Is(err, repository.ErrCorrupt):
		s.logger.WarnContext(ctx, "stored cart is unreadable, starting empty",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return domain.NewCart(sessionID, s.now()), nil
	default:
		return nil, fmt.Errorf("get cart: %w", err)
	}
}

// AddItem adds one unit of productID, looking the product up so the line
// carries the catalog's current title, price and image.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int) (*domain.Cart, error) {
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be a positive integer")
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		if err := checkIncrement(cart, productID); err != nil {
			return err
		}
		cart.Add(*product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.Int("product_id", productID),
		slog.Int("quantity", cart.Quantity(productID)),
	)
	return cart, nil
}

// AdjustQuantity moves a line up or down by one. A line reaching zero is
// removed.
func (s *CartService) AdjustQuantity(ctx context.Context, sessionID string, productID int, dir domain.Direction) (*domain.Cart, error) {
	if dir != domain.Increment && dir != domain.Decrement {
		return nil, apperrors.InvalidInput(domain.ErrInvalidDirection.Error())
	}

	cart, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		if !cart.Contains(productID) {
			return apperrors.NotFound("cart item", strconv.Itoa(productID))
		}
		if dir == domain.Increment {
			if err := checkIncrement(cart, productID); err != nil {
				return err
			}
		}
		return cart.Adjust(productID, dir)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart item quantity adjusted",
		slog.String("session_id", sessionID),
		slog.Int("product_id", productID),
		slog.String("direction", string(dir)),
		slog.Int("quantity", cart.Quantity(productID)),
	)
	return cart, nil
}

// RemoveItem drops a line.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int) (*domain.Cart, error) {
	cart, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) error {
		if !cart.Remove(productID) {
			return apperrors.NotFound("cart item", strconv.Itoa(productID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.Int("product_id", productID),
	)
	return cart, nil
}

// ClearCart deletes the session's cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.events.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))
	return nil
}

// mutate runs fn against the current cart and saves the result if the
// stored version has not moved. A lost race is a Conflict.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	expectedVersion := cart.Version

	if err := fn(cart); err != nil {
		return nil, err
	}
	cart.UpdatedAt = s.now()

	ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("cart was modified concurrently, please retry")
	}

	if err := s.events.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	return cart, nil
}

func checkIncrement(cart *domain.Cart, productID int) error {
	if cart.Quantity(productID) >= MaxQuantityPerItem {
		return apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}
	if !cart.Contains(productID) && len(cart.Items) >= MaxItemsPerCart {
		return apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}
	return nil
}
