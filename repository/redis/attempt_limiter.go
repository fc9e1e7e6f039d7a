package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"github.com/lifelogger/backend/repository"
)

type attemptLimiter struct {
	client *goRedis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewAttemptLimiter returns a fixed-window limiter backed by INCR and EXPIRE,
// so the limit holds across every instance sharing the Redis server.
func NewAttemptLimiter(client *goRedis.Client, limit int, window time.Duration) repository.AttemptLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{
		client: client,
		prefix: "lifelogger:attempts:",
		limit:  limit,
		window: window,
	}
}

// Hit counts the attempt and starts the window on the first one. EXPIRE is
// issued separately from INCR so servers older than Redis 7 (no EXPIRE NX)
// are supported.
func (l *attemptLimiter) Hit(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.prefix + key

	var (
		incr *goRedis.IntCmd
		ttl  *goRedis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe goRedis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	retryAfter := ttl.Val()
	if incr.Val() == 1 || retryAfter < 0 {
		if err := l.client.PExpire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, err
		}
		retryAfter = l.window
	}

	if int(incr.Val()) <= l.limit {
		return true, 0, nil
	}
	if retryAfter <= 0 {
		retryAfter = l.window
	}
	return false, retryAfter, nil
}
