package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "https://fakestoreapi.com", cfg.CatalogBaseURL)
	assert.Equal(t, 10*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, CartStoreRedis, cfg.CartStore)
	assert.True(t, cfg.UsesRedis())
	assert.Equal(t, 720*time.Hour, cfg.CartTTLDuration())
	assert.False(t, cfg.KafkaEnabled)
	assert.Zero(t, cfg.TrustedProxyHops)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CART_STORE", "memory")
	t.Setenv("CATALOG_CACHE_TTL", "0s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com,https://admin.example.com")
	t.Setenv("TRUSTED_PROXY_HOPS", "2")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.TrustedProxyHops)
	assert.False(t, cfg.UsesRedis())
	assert.Zero(t, cfg.CatalogCacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		env, value, wantErr string
	}{
		{"STOREFRONT_HTTP_PORT", "0", "invalid HTTP port"},
		{"CATALOG_BASE_URL", "not a url", "CATALOG_BASE_URL"},
		{"CATALOG_TIMEOUT", "0s", "CATALOG_TIMEOUT"},
		{"CATALOG_MAX_RETRIES", "-1", "CATALOG_MAX_RETRIES"},
		{"CART_STORE", "postgres", "CART_STORE"},
		{"CART_TTL_HOURS", "0", "CART_TTL_HOURS"},
		{"TRACING_SAMPLE_RATE", "2.0", "TRACING_SAMPLE_RATE"},
		{"RATE_LIMIT_BURST", "0", "RATE_LIMIT"},
		{"TRUSTED_PROXY_HOPS", "-1", "TRUSTED_PROXY_HOPS"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_UnparsableValue(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load storefront config")
}
