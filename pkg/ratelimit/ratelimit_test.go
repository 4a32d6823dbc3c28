package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type memoryStore struct {
	counters map[string]int64
}

func (s *memoryStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.counters == nil {
		s.counters = make(map[string]int64)
	}
	s.counters[key]++
	return s.counters[key], nil
}

func TestLimiterAllowsUpToMax(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	limiter := New(&memoryStore{}, clock, time.Minute, 3)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(context.Background(), "client-a")
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := limiter.Allow(context.Background(), "client-a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLimiterResetsOnNewWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	limiter := New(&memoryStore{}, clock, time.Minute, 1)

	ok, err := limiter.Allow(context.Background(), "client-a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(context.Background(), "client-a")
	require.NoError(t, err)
	require.False(t, ok)

	clock.now = clock.now.Add(2 * time.Minute)
	ok, err = limiter.Allow(context.Background(), "client-a")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLimiterIsolatesClients(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	limiter := New(&memoryStore{}, clock, time.Minute, 1)

	ok, _ := limiter.Allow(context.Background(), "client-a")
	require.True(t, ok)
	ok, _ = limiter.Allow(context.Background(), "client-b")
	require.True(t, ok)
}
