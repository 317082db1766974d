package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	for _, k := range []string{"PORT", "STORE_DRIVER", "MONGO_URL", "MONGO_DB", "CORS_ORIGINS",
		"REDIS_ADDR", "REDIS_DB", "CACHE_TTL", "BRAINTREE_MERCHANT_ID"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "ecommerce", cfg.MongoDB)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.Braintree.Configured())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("BRAINTREE_MERCHANT_ID", "m")
	t.Setenv("BRAINTREE_PUBLIC_KEY", "pub")
	t.Setenv("BRAINTREE_PRIVATE_KEY", "priv")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.Braintree.Configured())
}

func TestFromEnvErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {"JWT_SECRET": ""},
		"bad driver":     {"JWT_SECRET": "s", "STORE_DRIVER": "sqlite"},
		"bad redis db":   {"JWT_SECRET": "s", "REDIS_DB": "one"},
		"bad ttl":        {"JWT_SECRET": "s", "CACHE_TTL": "soon"},
		"negative ttl":   {"JWT_SECRET": "s", "CACHE_TTL": "-1s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "")
			t.Setenv("REDIS_DB", "")
			t.Setenv("CACHE_TTL", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONFIG_TEST_FROM_FILE=file\nCONFIG_TEST_PRESET=file\n"), 0o600))
	t.Setenv("CONFIG_TEST_PRESET", "env")
	t.Setenv("CONFIG_TEST_FROM_FILE", "")
	os.Unsetenv("CONFIG_TEST_FROM_FILE")

	LoadEnvFiles(filepath.Join(dir, "missing.env"), path)

	assert.Equal(t, "file", os.Getenv("CONFIG_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("CONFIG_TEST_PRESET"))
}
