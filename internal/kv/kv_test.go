package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendContract runs the behaviour every Backend must share.
func backendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	blob, err := b.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Nil(t, blob, "absent key reads as nil")

	// must-not-exist write succeeds once
	v, err := b.Put(ctx, "orders", []byte(`[]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = b.Put(ctx, "orders", []byte(`[1]`), 0)
	assert.True(t, errors.Is(err, ErrVersionConflict), "second create must conflict, got %v", err)

	// expected version must match
	_, err = b.Put(ctx, "orders", []byte(`[2]`), 7)
	assert.True(t, errors.Is(err, ErrVersionConflict))

	v, err = b.Put(ctx, "orders", []byte(`[3]`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	// unconditional write always lands
	v, err = b.Put(ctx, "orders", []byte(`[4]`), AnyVersion)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	blob, err = b.Get(ctx, "orders")
	require.NoError(t, err)
	require.NotNil(t, blob)
	assert.Equal(t, `[4]`, string(blob.Data))
	assert.Equal(t, int64(3), blob.Version)

	// keys are independent
	v, err = b.Put(ctx, "idempotency:k1", []byte(`{}`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestMemoryBackend(t *testing.T) {
	backendContract(t, NewMemoryBackend())
}

func TestMemoryBackend_GetReturnsCopy(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	_, err := b.Put(ctx, "k", []byte("abc"), AnyVersion)
	require.NoError(t, err)

	blob, err := b.Get(ctx, "k")
	require.NoError(t, err)
	blob.Data[0] = 'z'

	again, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again.Data))
}

func TestDynamoBackend(t *testing.T) {
	mock := newMockDynamo()
	backendContract(t, NewDynamoBackend(mock, "orderboard"))
	assert.Greater(t, mock.updateCalls, 0)
}

func TestDynamoBackend_PropagatesErrors(t *testing.T) {
	mock := newMockDynamo()
	mock.failWith = errors.New("throttled")
	b := NewDynamoBackend(mock, "orderboard")

	_, err := b.Get(context.Background(), "orders")
	require.Error(t, err)
	_, err = b.Put(context.Background(), "orders", []byte(`[]`), AnyVersion)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrVersionConflict))
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backendContract(t, NewRedisBackend(rdb, "orderboard:"))
	assert.True(t, mr.Exists("orderboard:orders"))
}
