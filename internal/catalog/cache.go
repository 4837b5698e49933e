package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
)

const cachePrefix = "storefront:catalog:"

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Catalog cache lookups by kind and result (hit, miss, error)",
	},
	[]string{"kind", "result"},
)

// Cached serves catalog reads from Redis, falling through to next on a miss.
// Redis failures are logged and bypassed; only successful answers are cached.
type Cached struct {
	next   Source
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next with a Redis cache of the given TTL.
func NewCached(next Source, rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

// ListProducts implements Source.
func (c *Cached) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return cached(ctx, c, "products", cachePrefix+"products", c.next.ListProducts)
}

// ListByCategory implements Source.
func (c *Cached) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return cached(ctx, c, "category", cachePrefix+"category:"+category, func(ctx context.Context) ([]domain.Product, error) {
		return c.next.ListByCategory(ctx, category)
	})
}

// GetProduct implements Source.
func (c *Cached) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return cached(ctx, c, "product", cachePrefix+"product:"+strconv.Itoa(id), func(ctx context.Context) (*domain.Product, error) {
		return c.next.GetProduct(ctx, id)
	})
}

// Categories implements Source.
func (c *Cached) Categories(ctx context.Context) ([]string, error) {
	return cached(ctx, c, "categories", cachePrefix+"categories", c.next.Categories)
}

func cached[T any](ctx context.Context, c *Cached, kind, key string, load func(context.Context) (T, error)) (T, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(data, &v); jsonErr == nil {
			cacheRequests.WithLabelValues(kind, "hit").Inc()
			return v, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable catalog cache entry", slog.String("key", key))
		cacheRequests.WithLabelValues(kind, "error").Inc()
	case errors.Is(err, redis.Nil):
		cacheRequests.WithLabelValues(kind, "miss").Inc()
	default:
		c.logger.WarnContext(ctx, "catalog cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		cacheRequests.WithLabelValues(kind, "error").Inc()
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if encoded, jsonErr := json.Marshal(v); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "catalog cache write failed",
				slog.String("key", key),
				slog.String("error", setErr.Error()),
			)
		}
	}
	return v, nil
}
