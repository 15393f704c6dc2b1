package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, ":8080", c.HttpAddr)
	assert.Equal(t, CatalogFixtures, c.Catalog.Source)
	assert.Equal(t, "jnj-cart", c.Cart.Namespace)
	assert.Equal(t, 24*time.Hour, c.Cart.TTL)
	assert.Equal(t, "@every 1h", c.Cart.PurgeSchedule)
	assert.Empty(t, c.LogFile)
	assert.NoError(t, c.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	data := []byte(`
http_addr: ":9090"
catalog:
  source: cms
  timeout: 2s
cms:
  project_id: abc123
cart:
  storage: redis
  ttl: 1h
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SANITY_DATASET", "staging")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOG_FILE", "/var/log/booths.log")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.HttpAddr)
	assert.Equal(t, CatalogCMS, c.Catalog.Source)
	assert.Equal(t, 2*time.Second, c.Catalog.Timeout)
	assert.Equal(t, "abc123", c.CMS.ProjectId)
	assert.Equal(t, "staging", c.CMS.Dataset)
	assert.Equal(t, CartRedis, c.Cart.Storage)
	assert.Equal(t, time.Hour, c.Cart.TTL)
	assert.Equal(t, 3, c.Redis.DB)
	assert.Equal(t, "/var/log/booths.log", c.LogFile)
	assert.True(t, c.RedisNeeded())
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Catalog.Source = "ftp"
	assert.Error(t, c.Validate())

	c = Default()
	c.Cart.Storage = "cookie"
	assert.Error(t, c.Validate())
}

func TestPostgresDSN(t *testing.T) {
	c := Default()
	c.Database.User = "u"
	c.Database.Password = "p"
	c.Database.Host = "db"
	c.Database.Name = "catalog"

	assert.Equal(t, "postgres://u:p@db:5432/catalog?sslmode=disable", c.PostgresDSN())
}

func TestLoad_BoltStorage(t *testing.T) {
	t.Setenv("CART_STORAGE", "bolt")
	t.Setenv("CART_BOLT_PATH", "/tmp/carts.bolt")
	t.Setenv("CART_PURGE_SCHEDULE", "@daily")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, CartBolt, c.Cart.Storage)
	assert.Equal(t, "/tmp/carts.bolt", c.Cart.BoltPath)
	assert.Equal(t, "@daily", c.Cart.PurgeSchedule)
	assert.False(t, c.RedisNeeded())
}
