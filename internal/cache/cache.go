// Package cache provides a small TTL key/value store used to memoize GET
// responses. The store is constructed explicitly at startup and injected
// where needed — there is no package-level instance.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the contract the response-cache middleware depends on.
// Lookups and writes are best effort: a failing backend must degrade to
// cache misses, never to request failures.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore wraps a go-redis client as a Store. All keys are namespaced
// under prefix to keep cache entries apart from the job queues.
func NewRedisStore(rdb *redis.Client, prefix string) Store {
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = s.rdb.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) {
	_ = s.rdb.Del(ctx, s.prefix+key).Err()
}
