package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Store is the persistent counter store behind the limiter. Increment must
// atomically bump the counter for key and set its expiry to ttl when the
// counter is created, returning the post-increment value.
type Store interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Limiter implements a fixed-window request counter.
type Limiter struct {
	store  Store
	clock  Clock
	window time.Duration
	max    int
}

// New builds a limiter over the given store.
func New(store Store, clock Clock, window time.Duration, max int) *Limiter {
	if clock == nil {
		clock = SystemClock{}
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 10
	}
	return &Limiter{store: store, clock: clock, window: window, max: max}
}

// Allow reports whether the caller identified by id may proceed within the
// current window.
func (l *Limiter) Allow(ctx context.Context, id string) (bool, error) {
	windowStart := l.clock.Now().Unix() / int64(l.window.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%d", id, windowStart)
	count, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return false, err
	}
	return count <= int64(l.max), nil
}

// RedisStore backs the limiter with Redis counters.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment bumps the counter and sets the expiry on first use.
func (s *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("ratelimit increment %s: %w", key, err)
	}
	return incr.Val(), nil
}
