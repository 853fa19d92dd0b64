// Package cache implementa catalog.Cache sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/replenishment-api/internal/application/catalog"
	"github.com/jhoicas/replenishment-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "replenishment"

var _ catalog.Cache = (*RedisCache)(nil)

// cmdable subconjunto de go-redis que usa la caché.
type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache guarda valores JSON con TTL. Un fallo de Redis se registra y se trata como miss.
type RedisCache struct {
	store cmdable
	ttl   time.Duration
	log   *logger.Logger
}

// NewRedisCache construye la caché; ttl <= 0 usa 5 minutos.
func NewRedisCache(store cmdable, ttl time.Duration, log *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisCache{store: store, ttl: ttl, log: log.Component("catalog_cache")}
}

// NewClient abre un cliente desde REDIS_URL y verifica la conexión.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func namespaced(key string) string {
	return keyNamespace + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) bool {
	raw, err := c.store.Get(ctx, namespaced(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("valor de caché corrupto")
		return false
	}
	return true
}

func (c *RedisCache) Set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("valor no serializable")
		return
	}
	if err := c.store.Set(ctx, namespaced(key), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = namespaced(k)
	}
	if err := c.store.Del(ctx, full...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("invalidación de caché fallida")
	}
}
