package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

type mockCmdable struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failGet bool
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisCache_SetGetConTTL(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	c := NewRedisCache(mock, time.Minute, nil)

	in := entity.Item{ID: "it-1", SKU: "SKU-1", UnitPrice: decimal.RequireFromString("12.50"), Active: true}
	c.Set(ctx, "catalog:item:it-1", in)

	assert.Equal(t, time.Minute, mock.ttls["replenishment:catalog:item:it-1"])

	var out entity.Item
	require.True(t, c.Get(ctx, "catalog:item:it-1", &out))
	assert.Equal(t, "SKU-1", out.SKU)
	assert.True(t, out.UnitPrice.Equal(decimal.RequireFromString("12.5")))
}

func TestRedisCache_MissYFalloSonFalse(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	c := NewRedisCache(mock, 0, nil)

	var out entity.Item
	assert.False(t, c.Get(ctx, "catalog:item:nada", &out))

	c.Set(ctx, "k", entity.Item{ID: "x"})
	mock.failGet = true
	assert.False(t, c.Get(ctx, "k", &out))
}

func TestRedisCache_ValorCorruptoEsMiss(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.data["replenishment:k"] = "{no-json"
	c := NewRedisCache(mock, time.Minute, nil)

	var out entity.Item
	assert.False(t, c.Get(ctx, "k", &out))
}

func TestRedisCache_DeleteInvalida(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	c := NewRedisCache(mock, time.Minute, nil)

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Delete(ctx, "a", "b")
	c.Delete(ctx)

	var n int
	assert.False(t, c.Get(ctx, "a", &n))
	assert.False(t, c.Get(ctx, "b", &n))
}
