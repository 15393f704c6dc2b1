package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"boothStore/entities"
	"boothStore/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CartRepository is the durable key-value slot holding cart snapshots.
// GetCart returns an empty cart for unknown keys.
type CartRepository interface {
	SetCart(ctx context.Context, key string, cart entities.Cart) (err error)
	GetCart(ctx context.Context, key string) (res entities.Cart, err error)
	DeleteCart(ctx context.Context, key string) (err error)
}

// Purger is implemented by cart stores without native key expiry.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

type CartRepo struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewCartRepository(ctx context.Context, redis_conn *redis.Client, ttl time.Duration, logger *zap.Logger) (CartRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &CartRepo{
		rdb: redis_conn,
		ttl: ttl,
		log: logger,
	}, nil
}

func (c *CartRepo) SetCart(ctx context.Context, key string, cart entities.Cart) (err error) {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		c.log.Error("SetCart: marshal", zap.Error(err))
		err = models.ErrServerError
		return
	}
	err = c.rdb.Set(ctx, key, jsonData, c.ttl).Err()
	if err != nil {
		c.log.Error("SetCart: redis set", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (c *CartRepo) GetCart(ctx context.Context, key string) (res entities.Cart, err error) {
	res = entities.Cart{}
	val, e := c.rdb.Get(ctx, key).Result()
	if e != nil {
		if e == redis.Nil {
			return
		}
		c.log.Error("GetCart: redis get", zap.String("key", key), zap.Error(e))
		err = models.ErrServerError
		return
	}
	err = json.Unmarshal([]byte(val), &res)
	if err != nil {
		c.log.Error("GetCart: unmarshal", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (c *CartRepo) DeleteCart(ctx context.Context, key string) (err error) {
	err = c.rdb.Del(ctx, key).Err()
	if err != nil {
		c.log.Error("DeleteCart: redis del", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}
