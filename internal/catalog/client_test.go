package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

const productsJSON = `[
  {"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"bag","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
  {"id":5,"title":"Gold Bracelet","price":695,"description":"gold","category":"jewelery","image":"https://img/5.jpg"}
]`

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeStore mimics the public catalog API, including its habit of answering
// unknown product ids with an empty 200.
func fakeStore(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(productsJSON))
	})
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`["electronics","jewelery","men's clothing","women's clothing"]`))
	})
	mux.HandleFunc("GET /products/category/{cat}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.PathValue("cat") == "men's clothing" {
			_, _ = w.Write([]byte(`[{"id":1,"title":"Fjallraven Backpack","price":109.95,"category":"men's clothing"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.PathValue("id") {
		case "1":
			_, _ = w.Write([]byte(`{"id":1,"title":"Fjallraven Backpack","price":109.95,"category":"men's clothing","image":"https://img/1.jpg"}`))
		case "2":
			_, _ = w.Write([]byte(`{"id":2,"title":"No Rating","price":22.3}`))
		case "500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(baseURL, breaker string) *Client {
	hc := httpclient.New(httpclient.Config{
		Timeout:         2 * time.Second,
		MaxRetries:      0,
		MaxConnsPerHost: 4,
	})
	cb := httpclient.NewCircuitBreakerClient(hc, httpclient.DefaultCircuitBreakerConfig(breaker), newTestLogger())
	return NewClient(baseURL+"/", cb, newTestLogger())
}

func TestClient_ListProducts(t *testing.T) {
	srv, _ := fakeStore(t)
	c := newTestClient(srv.URL, "catalog-list")

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Fjallraven Backpack", products[0].Title)
	assert.Equal(t, 109.95, products[0].Price)
	require.NotNil(t, products[0].Rating)
	assert.Equal(t, 120, products[0].Rating.Count)
	assert.Nil(t, products[1].Rating)
}

func TestClient_ListByCategory_EscapesPath(t *testing.T) {
	srv, _ := fakeStore(t)
	c := newTestClient(srv.URL, "catalog-category")

	products, err := c.ListByCategory(context.Background(), "men's clothing")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)

	products, err = c.ListByCategory(context.Background(), "electronics")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestClient_GetProduct(t *testing.T) {
	srv, _ := fakeStore(t)
	c := newTestClient(srv.URL, "catalog-get")

	p, err := c.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://img/1.jpg", p.Image)

	p, err = c.GetProduct(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, p.Rating)
}

func TestClient_GetProduct_EmptyBodyIsNotFound(t *testing.T) {
	srv, _ := fakeStore(t)
	c := newTestClient(srv.URL, "catalog-empty")

	_, err := c.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "product with id 999 not found")
}

func TestClient_GetProduct_UpstreamFailure(t *testing.T) {
	srv, _ := fakeStore(t)
	c := newTestClient(srv.URL, "catalog-500")

	_, err := c.GetProduct(context.Background(), 500)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Status)
	assert.Equal(t, "failed to load product", appErr.Message)
}

func TestClient_Categories(t *testing.T) {
	srv, _ := fakeStore(t)
	c := newTestClient(srv.URL, "catalog-cats")

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "jewelery", "men's clothing", "women's clothing"}, cats)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestClient_Unreachable(t *testing.T) {
	srv, _ := fakeStore(t)
	url := srv.URL
	srv.Close()

	c := newTestClient(url, "catalog-down")
	_, err := c.ListProducts(context.Background())

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SERVICE_UNAVAILABLE", appErr.Code)
	assert.Equal(t, "failed to load products", appErr.Message)
}
