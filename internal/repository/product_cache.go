package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const productCachePrefix = "product:"

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) domain.ProductCache {
	return &redisProductCache{client: client, ttl: ttl, log: logger}
}

func (c *redisProductCache) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	raw, err := c.client.Get(ctx, productCachePrefix+slug).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("could not read product cache: %w", err)
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warnf("Dropping unreadable cache entry for %q: %v", slug, err)
		_ = c.client.Del(ctx, productCachePrefix+slug).Err()
		return nil, domain.ErrCacheMiss
	}
	return &p, nil
}

func (c *redisProductCache) SetProduct(ctx context.Context, product *domain.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("could not encode product: %w", err)
	}
	if err := c.client.Set(ctx, productCachePrefix+product.Slug, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("could not write product cache: %w", err)
	}
	return nil
}
