package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct{ *redis.Client }

func NewRedis(addr, pass string, db int) *RedisClient {
	return &RedisClient{redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (c *RedisClient) Ping(ctx context.Context) error { return c.Client.Ping(ctx).Err() }

// TryLock implements domain.Locker with SET NX. The lease is never released
// explicitly; it lapses after ttl.
func (c *RedisClient) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return SetNX(ctx, c, "lock:"+key, time.Now().Unix(), ttl)
}

// Helpers
func SetNX(ctx context.Context, r *RedisClient, key string, val any, ttl time.Duration) (bool, error) {
	return r.SetNX(ctx, key, val, ttl).Result()
}

// FixedWindowLimiter implements domain.RateLimiter with one counter per key and window
type FixedWindowLimiter struct {
	client *RedisClient
	limit  int
	window time.Duration
}

func NewFixedWindowLimiter(client *RedisClient, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, limit: limit, window: window}
}

// Allow counts a hit for key. It returns false with the time left in the
// window once more than limit hits were recorded.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := "ratelimit:" + key
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, 0, err
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, 0, err
		}
	}

	if n <= int64(l.limit) {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}
