package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/pkg/health"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["electronics"]`))
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "9" {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write([]byte(`{"id":9,"title":"Slim Monitor","price":599,"category":"electronics"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(upstream string) *config.Config {
	return &config.Config{
		Environment:        "test",
		LogLevel:           "error",
		HTTPPort:           8080,
		CatalogBaseURL:     upstream,
		CatalogTimeout:     time.Second,
		CatalogMaxRetries:  0,
		CatalogCacheTTL:    time.Minute,
		CartStore:          config.CartStoreMemory,
		CartTTL:            1,
		TracingSampleRate:  1,
		RateLimitRPS:       100,
		RateLimitBurst:     100,
		CORSAllowedOrigins: []string{"*"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func readiness(t *testing.T, h http.Handler) health.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp health.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNewApp_MemoryStore(t *testing.T) {
	upstream := newUpstream(t)
	a := newTestApp(t, testConfig(upstream.URL))

	resp := readiness(t, a.Handler())
	assert.Contains(t, resp.Checks, "catalog")
	assert.NotContains(t, resp.Checks, "redis")
	assert.Nil(t, a.rdb)
}

func TestNewApp_RedisStore(t *testing.T) {
	upstream := newUpstream(t)
	mr := miniredis.RunT(t)

	cfg := testConfig(upstream.URL)
	cfg.CartStore = config.CartStoreRedis
	cfg.RedisAddr = mr.Addr()
	a := newTestApp(t, cfg)

	resp := readiness(t, a.Handler())
	assert.Contains(t, resp.Checks, "redis")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(`{"product_id":9}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "app-test")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, mr.Exists("storefront:cart:app-test"))
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	upstream := newUpstream(t)
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(upstream.URL)
	cfg.CartStore = config.CartStoreRedis
	cfg.RedisAddr = addr

	_, err := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}
