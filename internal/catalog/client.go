package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
)

// Source is anything that can answer catalog queries.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Client talks to the Fake Store API.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(baseURL string, hc *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.list(ctx, "catalog.ListProducts", "/products")
}

// ListByCategory returns the products of one category.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return c.list(ctx, "catalog.ListByCategory", "/products/category/"+url.PathEscape(category))
}

// GetProduct returns one product. The upstream answers an unknown id with an
// empty 200, which becomes NotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	ctx, span := tracing.Tracer("catalog").Start(ctx, "catalog.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int("product.id", id))

	var p domain.Product
	err := c.http.GetJSON(ctx, c.baseURL+"/products/"+strconv.Itoa(id), &p)
	if errors.Is(err, httpclient.ErrEmptyBody) || errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("product", strconv.Itoa(id))
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, c.unavailable(ctx, "failed to load product", err)
	}
	if p.ID == 0 {
		return nil, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return &p, nil
}

// Categories returns the category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	ctx, span := tracing.Tracer("catalog").Start(ctx, "catalog.Categories")
	defer span.End()

	var cats []string
	err := c.http.GetJSON(ctx, c.baseURL+"/products/categories", &cats)
	if errors.Is(err, httpclient.ErrEmptyBody) {
		return []string{}, nil
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, c.unavailable(ctx, "failed to load categories", err)
	}
	return cats, nil
}

// Ping checks that the catalog answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Categories(ctx)
	return err
}

func (c *Client) list(ctx context.Context, op, path string) ([]domain.Product, error) {
	ctx, span := tracing.Tracer("catalog").Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("catalog.path", path))

	var products []domain.Product
	err := c.http.GetJSON(ctx, c.baseURL+path, &products)
	if errors.Is(err, httpclient.ErrEmptyBody) {
		return []domain.Product{}, nil
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, c.unavailable(ctx, "failed to load products", err)
	}
	span.SetAttributes(attribute.Int("catalog.count", len(products)))
	return products, nil
}

func (c *Client) unavailable(ctx context.Context, msg string, err error) error {
	c.logger.WarnContext(ctx, "catalog request failed",
		slog.String("error", err.Error()),
	)
	return apperrors.ServiceUnavailable(msg, fmt.Errorf("catalog: %w", err))
}
