package repository

import (
	"context"
	"time"
)

// AttemptLimiter counts attempts per key inside a fixed window.
type AttemptLimiter interface {
	// Hit records one attempt and reports whether it is still within the limit.
	// When it is not, retryAfter is the time left until the window resets.
	Hit(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
