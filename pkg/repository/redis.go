package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/example/preorder/pkg/config"
	"github.com/example/preorder/pkg/models"
)

const orderCacheTTL = 15 * time.Minute

// RedisCache keeps recently touched orders so GET /orders/{id} can skip the
// database. Entries are invalidated on every mutation.
type RedisCache struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisCache(cfg *config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) CacheOrder(ctx context.Context, o *models.Order) error {
	return r.setJSON(ctx, orderKey(o.ID), o, orderCacheTTL)
}

func (r *RedisCache) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.getJSON(ctx, orderKey(id), &o); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *RedisCache) InvalidateOrder(ctx context.Context, id uint) error {
	return r.client.Del(ctx, orderKey(id)).Err()
}

func (r *RedisCache) setJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisCache) getJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func orderKey(id uint) string {
	return fmt.Sprintf("order:%d", id)
}
