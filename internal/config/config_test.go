package config

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/kv"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "admin password", cfg.AdminPassword)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.NotifyDuration)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Equal(t, "OrderBoard", cfg.MetricsNamespace)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, orders.PolicyForwardOnly, cfg.Policy())
	assert.False(t, cfg.RunLocal)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("TRANSITION_POLICY", "permissive")
	t.Setenv("RUN_LOCAL", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, orders.PolicyPermissive, cfg.Policy())
	assert.True(t, cfg.RunLocal)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("TRANSITION_POLICY", "sideways")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(context.Background(), RedisConfig{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	defer rdb.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), RedisConfig{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	b, closeFn, err := OpenBackend(ctx, &Config{StoreBackend: BackendMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &kv.MemoryBackend{}, b)
	assert.NoError(t, closeFn())

	_, _, err = OpenBackend(ctx, &Config{StoreBackend: BackendDynamoDB, StoreTable: "t"}, nil)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	b, closeFn, err = OpenBackend(ctx, &Config{
		StoreBackend: BackendRedis,
		Redis:        RedisConfig{Host: mr.Host(), Port: mr.Port()},
	}, nil)
	require.NoError(t, err)
	defer closeFn()
	_, err = b.Put(ctx, "orders", []byte(`[]`), 0)
	require.NoError(t, err)
	assert.True(t, mr.Exists(RedisKeyPrefix+"orders"))
}
