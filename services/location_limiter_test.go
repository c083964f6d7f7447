package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterCooldown(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(3 * time.Second)
	l.now = clock.Now

	ok, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.Advance(2999 * time.Millisecond)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok, "within the cooldown")

	// other tokens are independent
	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok)

	clock.Advance(2 * time.Millisecond)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok, "cooldown measured from the last accepted sample")
}

func TestMemoryLimiterRelease(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(3 * time.Second)
	l.now = clock.Now

	ok, _ := l.Allow(ctx, "a")
	require.True(t, ok)
	require.NoError(t, l.Release(ctx, "a"))

	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryLimiterSweep(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(3 * time.Second)
	l.now = clock.Now

	l.Allow(ctx, "a")
	clock.Advance(2 * time.Second)
	l.Allow(ctx, "b")
	assert.Equal(t, 2, l.Len())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
}

func TestMemoryLimiterStartStopsWithContext(t *testing.T) {
	clock := newFakeClock()
	l := NewMemoryLimiter(time.Second)
	l.now = clock.Now
	l.Allow(context.Background(), "a")
	clock.Advance(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.Start(ctx, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	l := NewRedisLimiter(client, 3*time.Second)

	ok, err := l.Allow(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(3*time.Second + time.Millisecond)
	ok, err = l.Allow(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiterRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	l := NewRedisLimiter(client, 3*time.Second)

	ok, err := l.Allow(ctx, "tok")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.Release(ctx, "tok"))
	assert.False(t, mr.Exists("burger:location:tok"))

	ok, err = l.Allow(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiterReportsConnectionErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisLimiter(client, time.Second).Allow(context.Background(), "tok")
	assert.Error(t, err)
}
