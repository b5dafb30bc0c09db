package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimited indicates the caller exhausted its reset-request budget
var ErrRateLimited = errors.New("rate limited")

const resetKeyPrefix = "pwreset:"

// ResetLimiter enforces a fixed-window cooldown on password reset requests
// per email address, using an INCR + EXPIRE counter.
type ResetLimiter struct {
	redis       redis.UniversalClient
	maxRequests int
	window      time.Duration
}

// NewResetLimiter creates a reset-request limiter backed by the given client
func NewResetLimiter(client redis.UniversalClient, maxRequests int, window time.Duration) *ResetLimiter {
	return &ResetLimiter{
		redis:       client,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow records a reset request for the address and reports whether it is
// within budget. The counter's TTL is set on its first hit so the window is
// anchored to the first request.
func (l *ResetLimiter) Allow(ctx context.Context, email string) error {
	key := resetKeyPrefix + email

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return err
		}
	}
	if count > int64(l.maxRequests) {
		return ErrRateLimited
	}
	return nil
}
