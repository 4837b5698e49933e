package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/pagination"
)

// Catalog is the product source the services read from.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// CategoryFacet is one category checkbox of the filter bar.
type CategoryFacet struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	// ToggleQuery is the query string after toggling this category.
	ToggleQuery string `json:"toggle_query"`
}

// Facets describes the filter bar for the current listing.
type Facets struct {
	Categories []CategoryFacet `json:"categories"`
	HasFilters bool            `json:"has_filters"`
	ClearQuery string          `json:"clear_query"`
}

// Listing is one page of filtered products plus the filter state.
type Listing struct {
	pagination.Result[domain.Product]
	Filter domain.Filter `json:"filter"`
	Facets Facets        `json:"facets"`
}

// CatalogService answers product listing and detail queries.
type CatalogService struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(catalog Catalog, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: logger}
}

// List fetches the products for the selected categories (all products when
// none are selected), merges them without duplicates, applies search and
// sort, and cuts out the requested page.
func (s *CatalogService) List(ctx context.Context, filter domain.Filter, page pagination.Params) (*Listing, error) {
	var (
		products   []domain.Product
		categories []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.fetch(gctx, filter.Categories)
		return err
	})
	g.Go(func() error {
		cats, err := s.catalog.Categories(gctx)
		if err != nil {
			s.logger.WarnContext(ctx, "listing without category facets",
				slog.String("error", err.Error()),
			)
			return nil
		}
		categories = cats
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := domain.Apply(products, filter)

	return &Listing{
		Result: pagination.Paginate(filtered, page),
		Filter: filter,
		Facets: buildFacets(filter, categories),
	}, nil
}

// fetch loads every selected category concurrently. Results are merged in
// selection order.
func (s *CatalogService) fetch(ctx context.Context, categories []string) ([]domain.Product, error) {
	if len(categories) == 0 {
		return s.catalog.ListProducts(ctx)
	}

	results := make([][]domain.Product, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range categories {
		g.Go(func() error {
			products, err := s.catalog.ListByCategory(gctx, cat)
			if err != nil {
				return fmt.Errorf("list category %q: %w", cat, err)
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []domain.Product
	for _, r := range results {
		merged = append(merged, r...)
	}
	return domain.Dedupe(merged), nil
}

func buildFacets(filter domain.Filter, known []string) Facets {
	names := make([]string, 0, len(known)+len(filter.Categories))
	names = append(names, known...)
	// Selected categories the catalog does not list stay visible so they can
	// be deselected.
	for _, c := range filter.Categories {
		if !slices.Contains(names, c) {
			names = append(names, c)
		}
	}

	facets := Facets{
		Categories: make([]CategoryFacet, 0, len(names)),
		HasFilters: filter.HasFilters(),
		ClearQuery: filter.Clear().Encode(),
	}
	for _, name := range names {
		facets.Categories = append(facets.Categories, CategoryFacet{
			Name:        name,
			Selected:    filter.HasCategory(name),
			ToggleQuery: filter.ToggleCategory(name).Encode(),
		})
	}
	return facets
}

// Get returns one product.
func (s *CatalogService) Get(ctx context.Context, id int) (*domain.Product, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("product id must be a positive integer")
	}
	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return p, nil
}

// Categories returns every category name the catalog knows.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.catalog.Categories(ctx)
}
