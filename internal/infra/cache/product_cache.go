package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// RedisProductCache stores JSON encoded catalog reads under "<prefix>:<key>".
// Concurrent misses on the same key share one loader call.
type RedisProductCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

var _ infra.ProductCache = (*RedisProductCache)(nil)

func NewRedisProductCache(client *redis.Client, prefix string, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisProductCache) prefixed(key string) string {
	var b strings.Builder
	b.Grow(len(c.prefix) + 1 + len(key))
	b.WriteString(c.prefix)
	b.WriteString(":")
	b.WriteString(key)
	return b.String()
}

func (c *RedisProductCache) Products(ctx context.Context, key string, load func(ctx context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	var cached []domain.Product
	if c.get(ctx, "list:"+key, &cached) {
		return cached, nil
	}

	v, err, _ := c.group.Do("list:"+key, func() (interface{}, error) {
		products, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, "list:"+key, products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (c *RedisProductCache) Product(ctx context.Context, slug string, load func(ctx context.Context) (*domain.Product, error)) (*domain.Product, error) {
	var cached domain.Product
	if c.get(ctx, "product:"+slug, &cached) {
		return &cached, nil
	}

	v, err, _ := c.group.Do("product:"+slug, func() (interface{}, error) {
		p, err := load(ctx)
		if err != nil || p == nil {
			return p, err
		}
		c.set(ctx, "product:"+slug, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// Invalidate drops every key under the prefix.
func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefixed("*"), 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *RedisProductCache) get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, c.prefixed(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// set is best effort; a failed write only costs a later miss.
func (c *RedisProductCache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefixed(key), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}
