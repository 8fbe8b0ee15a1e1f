package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, cfg Config, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, cfg, opts...), mr
}

func TestRedisStore_CountsUpToLimit(t *testing.T) {
	s, _ := newTestRedisStore(t, Config{Window: time.Minute, MaxRequests: 3})
	ctx := context.Background()

	for n := 1; n <= 3; n++ {
		dec, err := s.Check(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, dec.Allowed)
		assert.Equal(t, 3-n, dec.Remaining)
	}

	dec, err := s.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, dec.Allowed)
	assert.Equal(t, 0, dec.Remaining)
}

func TestRedisStore_SetsExpiryOnFirstCall(t *testing.T) {
	s, mr := newTestRedisStore(t, Config{Window: time.Minute, MaxRequests: 3})

	_, err := s.Check(context.Background(), "k")
	require.NoError(t, err)

	assert.Equal(t, time.Minute, mr.TTL("ratelimit:contact:k"))
}

func TestRedisStore_WindowRollover(t *testing.T) {
	s, mr := newTestRedisStore(t, Config{Window: time.Minute, MaxRequests: 1})
	ctx := context.Background()

	_, _ = s.Check(ctx, "k")
	dec, _ := s.Check(ctx, "k")
	require.False(t, dec.Allowed)

	mr.FastForward(time.Minute)

	dec, err := s.Check(ctx, "k")
	require.NoError(t, err)
	assert.True(t, dec.Allowed)
	assert.Equal(t, 0, dec.Remaining)
}

func TestRedisStore_Reset(t *testing.T) {
	s, mr := newTestRedisStore(t, Config{Window: time.Minute, MaxRequests: 1})
	ctx := context.Background()

	_, _ = s.Check(ctx, "a")
	_, _ = s.Check(ctx, "b")

	require.NoError(t, s.Reset(ctx, "a"))
	assert.False(t, mr.Exists("ratelimit:contact:a"))
	assert.True(t, mr.Exists("ratelimit:contact:b"))

	require.NoError(t, s.ResetAll(ctx))
	assert.False(t, mr.Exists("ratelimit:contact:b"))
}

func TestRedisStore_ErrorWhenUnavailable(t *testing.T) {
	s, mr := newTestRedisStore(t, DefaultConfig())
	mr.Close()

	_, err := s.Check(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisStore_ResetTimeFollowsTTL(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s, mr := newTestRedisStore(t, Config{Window: time.Minute, MaxRequests: 2},
		WithRedisClock(func() time.Time { return now }))
	ctx := context.Background()

	dec, err := s.Check(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), dec.ResetTime)

	// The window keeps its original end as time passes
	mr.FastForward(20 * time.Second)
	now = now.Add(20 * time.Second)

	dec, err = s.Check(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, now.Add(40*time.Second), dec.ResetTime)
	assert.Equal(t, 0, dec.Remaining)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"custom prefix", "site-a", "site-a:k"},
		{"surrounding colons trimmed", ":site-b:", "site-b:k"},
		{"empty keeps default", "", DefaultRedisPrefix + ":k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mr := newTestRedisStore(t, DefaultConfig(), WithKeyPrefix(tt.prefix))
			ctx := context.Background()

			_, err := s.Check(ctx, "k")
			require.NoError(t, err)
			assert.True(t, mr.Exists(tt.want))

			require.NoError(t, s.ResetAll(ctx))
			assert.False(t, mr.Exists(tt.want))
		})
	}
}
