package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindowPerIdentifier(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "a")
	assert.False(t, ok, "third request in the window is rejected")

	now = now.Add(30 * time.Second)
	for i := 0; i < 2; i++ {
		ok, _ = l.Allow(ctx, "b")
		assert.True(t, ok, "other identifiers have their own budget")
	}

	now = now.Add(31 * time.Second)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok, "a's window expired")
	ok, _ = l.Allow(ctx, "b")
	assert.False(t, ok, "b's window started 30s later and is still full")
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	l := NewRedisLimiter(client, "test", 2, time.Minute)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}
