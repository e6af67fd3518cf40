package config

import (
	"context"
	"fmt"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/kv"
)

// RedisKeyPrefix namespaces the board's keys in a shared Redis.
const RedisKeyPrefix = "orderboard:"

// OpenBackend builds the blob backend selected by STORE_BACKEND. The returned
// close func releases connections and is never nil.
func OpenBackend(ctx context.Context, cfg *Config, clients *aws.AWSClients) (kv.Backend, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StoreBackend {
	case BackendMemory:
		return kv.NewMemoryBackend(), noop, nil
	case BackendDynamoDB:
		if clients == nil || clients.DynamoDB == nil {
			return nil, noop, fmt.Errorf("dynamodb backend needs an aws client")
		}
		return kv.NewDynamoBackend(clients.DynamoDB, cfg.StoreTable), noop, nil
	case BackendRedis:
		rdb, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return kv.NewRedisBackend(rdb, RedisKeyPrefix), rdb.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}
