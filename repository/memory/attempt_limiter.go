package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lifelogger/backend/repository"
)

type window struct {
	count   int
	resetAt time.Time
}

// AttemptLimiter is a process-local fixed-window limiter, used when no
// Redis server is configured.
type AttemptLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

var _ repository.AttemptLimiter = (*AttemptLimiter)(nil)

// NewAttemptLimiter allows limit hits per key every period.
func NewAttemptLimiter(limit int, period time.Duration, now func() time.Time) *AttemptLimiter {
	if limit <= 0 {
		limit = 5
	}
	if period <= 0 {
		period = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &AttemptLimiter{
		limit:   limit,
		period:  period,
		now:     now,
		windows: make(map[string]*window),
	}
}

func (l *AttemptLimiter) Hit(_ context.Context, key string) (bool, time.Duration, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.prune(now)
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++

	if w.count <= l.limit {
		return true, 0, nil
	}
	return false, w.resetAt.Sub(now), nil
}

// prune drops expired windows; callers hold mu.
func (l *AttemptLimiter) prune(now time.Time) {
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
}
