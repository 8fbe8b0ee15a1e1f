package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Limiter backed by a shared Redis counter, for deployments
// running more than one instance. Each window is a key holding the count,
// created by INCR and expiring after the window length.
type RedisStore struct {
	rdb    redis.UniversalClient
	cfg    Config
	prefix string
	now    func() time.Time
}

// DefaultRedisPrefix namespaces counter keys when no prefix is configured
const DefaultRedisPrefix = "ratelimit:contact"

type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces counter keys. An empty prefix keeps the default.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) { s.now = now }
}

func NewRedisStore(rdb redis.UniversalClient, cfg Config, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		cfg:    cfg.withDefaults(),
		prefix: DefaultRedisPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Config() Config { return s.cfg }

func (s *RedisStore) key(k string) string {
	return s.prefix + ":" + k
}

// Check implements Limiter.
func (s *RedisStore) Check(ctx context.Context, key string) (Decision, error) {
	k := s.key(key)

	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis check: %w", err)
	}

	// A fresh counter has no expiry yet. This also repairs a key left
	// without a TTL by an interrupted earlier call.
	ttl := pttl.Val()
	if ttl < 0 {
		if err := s.rdb.PExpire(ctx, k, s.cfg.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("ratelimit: redis expire: %w", err)
		}
		ttl = s.cfg.Window
	}

	windowStart := s.now().Add(ttl - s.cfg.Window)
	return decide(s.cfg, int(incr.Val()), windowStart), nil
}

// Reset deletes the counter for one key
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("ratelimit: redis reset: %w", err)
	}
	return nil
}

// ResetAll deletes every counter under the store prefix
func (s *RedisStore) ResetAll(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("ratelimit: redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("ratelimit: redis reset all: %w", err)
	}
	return nil
}
