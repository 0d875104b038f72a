// Package ratelimit bounds how often a user may call the chat endpoint.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "jobconnect:chat:ratelimit:"

// Decision is the result of one Allow call
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is a per-user fixed-window counter stored in Redis
type Limiter struct {
	rdb      *redis.Client
	requests int
	window   time.Duration
	now      func() time.Time
}

func NewLimiter(rdb *redis.Client, requests int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:      rdb,
		requests: requests,
		window:   window,
		now:      time.Now,
	}
}

// Allow counts one request for userID in the current window
func (l *Limiter) Allow(ctx context.Context, userID int64) (Decision, error) {
	windowStart := l.now().Truncate(l.window)
	key := fmt.Sprintf("%s%d:%d", keyPrefix, userID, windowStart.Unix())

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	if count > l.requests {
		return Decision{
			Allowed:    false,
			RetryAfter: windowStart.Add(l.window).Sub(l.now()),
		}, nil
	}

	return Decision{Allowed: true, Remaining: l.requests - count}, nil
}
