package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLoginLimit  = 10
	defaultLoginWindow = 15 * time.Minute
)

// LoginLimiter counts login attempts per key within a rolling window.
// Key format: login_attempts:<username>:<client_ip>
type LoginLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive limit or window fall back to the defaults.
func NewLoginLimiter(client *redis.Client, limit int64, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = defaultLoginLimit
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow records one attempt for key and reports whether it is within the
// limit. The window starts at the first attempt and expires as a whole.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := "login_attempts:" + key

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.limit, nil
}
