package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces per-key attempt budgets backed by Redis counters. A nil
// or unreachable Redis degrades open: auth must keep working without it.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// AllowLogin permits up to 5 login attempts per IP+email per 15 minutes.
func (l *Limiter) AllowLogin(ctx context.Context, ip, email string) bool {
	return l.allow(ctx, fmt.Sprintf("ratelimit:login:%s:%s", ip, email), 5, 15*time.Minute)
}

// AllowPasswordReset permits up to 3 OTP requests per email per hour.
func (l *Limiter) AllowPasswordReset(ctx context.Context, email string) bool {
	return l.allow(ctx, fmt.Sprintf("ratelimit:password_reset:%s", email), 3, time.Hour)
}

// Reset clears the login counter after a successful authentication.
func (l *Limiter) Reset(ctx context.Context, ip, email string) {
	if l.client == nil {
		return
	}
	l.client.Del(ctx, fmt.Sprintf("ratelimit:login:%s:%s", ip, email))
}

func (l *Limiter) allow(ctx context.Context, key string, max int64, window time.Duration) bool {
	if l.client == nil {
		return true
	}
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		l.client.Expire(ctx, key, window)
	}
	return count <= max
}
