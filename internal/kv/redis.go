package kv

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// putScript bumps the version and writes the blob in one round trip.
// Returns -1 when the expected version does not match.
var putScript = redis.NewScript(`
local cur = tonumber(redis.call('HGET', KEYS[1], 'version') or '0')
local expected = tonumber(ARGV[2])
if expected >= 0 and cur ~= expected then
	return -1
end
cur = cur + 1
redis.call('HSET', KEYS[1], 'data', ARGV[1], 'version', cur)
return cur
`)

// RedisBackend stores each key as a hash with "data" and "version" fields.
type RedisBackend struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisBackend creates a RedisBackend. prefix is prepended to every key.
func NewRedisBackend(rdb redis.UniversalClient, prefix string) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

func (r *RedisBackend) Get(ctx context.Context, key string) (*Blob, error) {
	vals, err := r.rdb.HMGet(ctx, r.prefix+key, "data", "version").Result()
	if err != nil {
		return nil, fmt.Errorf("hmget %s: %w", key, err)
	}
	data, ok := vals[0].(string)
	if !ok {
		return nil, nil
	}
	var version int64
	if v, ok := vals[1].(string); ok {
		if _, err := fmt.Sscan(v, &version); err != nil {
			return nil, fmt.Errorf("parse version of %s: %w", key, err)
		}
	}
	return &Blob{Data: []byte(data), Version: version}, nil
}

func (r *RedisBackend) Put(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	res, err := putScript.Run(ctx, r.rdb, []string{r.prefix + key}, string(data), expectedVersion).Int64()
	if err != nil {
		return 0, fmt.Errorf("put %s: %w", key, err)
	}
	if res < 0 {
		return 0, ErrVersionConflict
	}
	return res, nil
}
