// Package ratelimit implements a per-key fixed-window request counter.
//
// Every call to Check counts toward the caller's window, including the call
// that exceeds the limit. Windows start on the first request from a key and
// roll over once the window length has elapsed.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxRequests = 5
)

// Config holds the fixed-window parameters
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultConfig returns a 5 requests per minute configuration
func DefaultConfig() Config {
	return Config{Window: DefaultWindow, MaxRequests: DefaultMaxRequests}
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}
	return c
}

// Decision is the result of counting one request
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

// Limiter counts requests per key. Implementations must serialize the
// read-modify-write for a given key.
type Limiter interface {
	Check(ctx context.Context, key string) (Decision, error)
	Reset(ctx context.Context, key string) error
	ResetAll(ctx context.Context) error
}

func decide(cfg Config, count int, windowStart time.Time) Decision {
	remaining := cfg.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= cfg.MaxRequests,
		Limit:     cfg.MaxRequests,
		Remaining: remaining,
		ResetTime: windowStart.Add(cfg.Window),
	}
}
