package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// RateLimiter is a fixed-window counter keyed by caller.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow counts one attempt for key and reports whether it is within limit.
// The window is opened with SET NX EX before the increment, so a counter
// never exists without a TTL.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if _, err := r.client.SetNX(ctx, key, 0, window); err != nil {
		return false, err
	}

	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	// The window expired between SETNX and INCR, leaving a bare counter.
	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

// Blocked reports whether key already used up limit, without counting.
func (r *RateLimiter) Blocked(ctx context.Context, key string, limit int) (bool, error) {
	v, err := r.client.Get(ctx, key)
	if IsMiss(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	count, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return false, fmt.Errorf("rate limit counter %s: %w", key, err)
	}
	return count >= int64(limit), nil
}

// Reset forgets the counter, e.g. after a successful login.
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, key)
}

func LoginKey(clientIP string) string {
	return fmt.Sprintf("rate_limit:login:%s", clientIP)
}
