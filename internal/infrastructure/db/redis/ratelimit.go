package redis

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	// LimiterPrefix namespaces rate-limit counters.
	LimiterPrefix = "natours:ratelimit"
	maxRetry      = 3
)

// LimiterStore returns a Redis-backed counter store shared by every replica,
// or an in-process store when client is nil.
func LimiterStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if prefix == "" {
		prefix = LimiterPrefix
	}
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          prefix,
			CleanUpInterval: time.Minute,
		}), nil
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   prefix,
		MaxRetry: maxRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("redis limiter store: %w", err)
	}
	return store, nil
}
