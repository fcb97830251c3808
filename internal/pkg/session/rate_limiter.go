// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxAttempts = 10
	DefaultWindow      = 15 * time.Minute
)

// RateLimiter counts login attempts per client in fixed Redis windows.
// A nil client disables limiting.
type RateLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

func NewRateLimiter(client *redis.Client, maxAttempts int64, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// CheckLoginAttempt records an attempt from ip and reports whether it is allowed
// along with the attempts left in the window.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip string) (bool, int64, error) {
	if r == nil || r.client == nil {
		return true, r.limit(), nil
	}
	key := loginKey(ip)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return true, 0, fmt.Errorf("failed to set login window: %w", err)
		}
	}

	remaining := r.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= r.maxAttempts, remaining, nil
}

// ResetLoginAttempts clears the counter after a successful login.
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip string) error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Del(ctx, loginKey(ip)).Err()
}

func (r *RateLimiter) limit() int64 {
	if r == nil {
		return DefaultMaxAttempts
	}
	return r.maxAttempts
}

func loginKey(ip string) string {
	return fmt.Sprintf("ratelimit:login:%s", ip)
}
