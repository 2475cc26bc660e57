package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

// Limiter counts attempts per key inside a fixed window.
type Limiter interface {
	// Allow records an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset forgets every attempt recorded for key.
	Reset(ctx context.Context, key string) error
}

var (
	_ Limiter = (*RedisLimiter)(nil)
	_ Limiter = NopLimiter{}
)

// NewRedisClient connects to Redis and checks connectivity.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// RedisLimiter is a fixed window counter. The window starts at the first
// attempt for a key and the counter expires with it.
type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
	max       int64
	window    time.Duration
}

func NewRedisLimiter(client *redis.Client, keyPrefix string, max int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		max:       max,
		window:    window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.keyPrefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	// The counter is created with its expiry in one MULTI so a key can never
	// outlive the window.
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, l.window)
		incr = pipe.Incr(ctx, k)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("count attempt %s: %w", k, err)
	}

	// A counter left without a TTL by an older writer gets one now.
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", k, err)
		}
	}

	return incr.Val() <= l.max, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("del %s: %w", l.keyPrefix+key, err)
	}
	return nil
}

// NopLimiter allows everything.
type NopLimiter struct{}

func (NopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

func (NopLimiter) Reset(context.Context, string) error { return nil }
