package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	limiter := NewRedisLimiter(client, "login:", 3, time.Minute)

	for i := range 3 {
		ok, err := limiter.Allow(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}

	ok, err := limiter.Allow(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "other@b.com")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted separately")

	assert.Equal(t, time.Minute, mr.TTL("login:a@b.com"))

	t.Run("Should allow again after the window", func(t *testing.T) {
		mr.FastForward(time.Minute + time.Second)
		ok, err := limiter.Allow(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should allow again after reset", func(t *testing.T) {
		for range 5 {
			_, err := limiter.Allow(ctx, "reset@b.com")
			require.NoError(t, err)
		}
		require.NoError(t, limiter.Reset(ctx, "reset@b.com"))

		ok, err := limiter.Allow(ctx, "reset@b.com")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, mr.Exists("reset@b.com"))
		assert.True(t, mr.Exists("login:reset@b.com"))
	})

	t.Run("Should not extend the window on later attempts", func(t *testing.T) {
		_, err := limiter.Allow(ctx, "window@b.com")
		require.NoError(t, err)
		mr.FastForward(20 * time.Second)

		_, err = limiter.Allow(ctx, "window@b.com")
		require.NoError(t, err)
		assert.Equal(t, 40*time.Second, mr.TTL("login:window@b.com"))
	})

	t.Run("Should expire a counter that has no ttl", func(t *testing.T) {
		require.NoError(t, mr.Set("login:stuck@b.com", "10"))
		require.Zero(t, mr.TTL("login:stuck@b.com"))

		ok, err := limiter.Allow(ctx, "stuck@b.com")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, time.Minute, mr.TTL("login:stuck@b.com"))

		mr.FastForward(time.Minute + time.Second)
		ok, err = limiter.Allow(ctx, "stuck@b.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Should fail when redis is down", func(t *testing.T) {
		mr.Close()
		_, err := limiter.Allow(ctx, "a@b.com")
		require.Error(t, err)
	})
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedisClient(context.Background(), config.Redis{Addr: addr})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.Redis{Addr: addr})
	require.Error(t, err)
}

func TestNopLimiter(t *testing.T) {
	ok, err := NopLimiter{}.Allow(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, NopLimiter{}.Reset(context.Background(), "x"))
}
