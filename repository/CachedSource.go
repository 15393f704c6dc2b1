package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"boothStore/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productsCacheKey = "products"
	settingsCacheKey = "site-settings"
)

// CachedSource puts a Redis cache-aside layer in front of a remote source.
// Cache errors are logged and the inner source is consulted instead.
type CachedSource struct {
	inner  ProductSource
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedSource(inner ProductSource, rdb *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) (*CachedSource, error) {
	if inner == nil {
		return nil, errors.New("inner source must be non-nil")
	}
	if rdb == nil {
		return nil, errors.New("conn must be non-nil")
	}
	return &CachedSource{
		inner:  inner,
		rdb:    rdb,
		prefix: prefix + inner.Name() + ":",
		ttl:    ttl,
		log:    logger,
	}, nil
}

func (c *CachedSource) Name() string {
	return c.inner.Name() + "+redis"
}

func (c *CachedSource) get(ctx context.Context, key string, dest any) bool {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache unmarshal", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedSource) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache marshal", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache set", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedSource) GetProducts(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if c.get(ctx, productsCacheKey, &cached) && len(cached) > 0 {
		return cached, nil
	}
	prods, err := c.inner.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	// empty results are not cached so a freshly populated CMS shows up at once
	if len(prods) > 0 {
		c.set(ctx, productsCacheKey, prods)
	}
	return prods, nil
}

func (c *CachedSource) GetSiteSettings(ctx context.Context) (*models.SiteSettings, error) {
	var cached models.SiteSettings
	if c.get(ctx, settingsCacheKey, &cached) {
		return &cached, nil
	}
	s, err := c.inner.GetSiteSettings(ctx)
	if err != nil || s == nil {
		return s, err
	}
	c.set(ctx, settingsCacheKey, s)
	return s, nil
}

// Invalidate drops the cached catalog, e.g. after a CMS webhook.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.prefix+productsCacheKey, c.prefix+settingsCacheKey).Err()
}
