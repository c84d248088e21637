package ratelimit

import (
	"sync"
	"time"
)

// window tracks request usage for one provider inside the current fixed window.
type window struct {
	requestCount int
	startedAt    time.Time
}

// Limiter is a fixed-window request counter keyed by provider.
// Bursts straddling a window boundary can briefly exceed the configured rate;
// that is the accepted behavior of a fixed window, not a sliding one.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
}

func NewLimiter(limit int, duration time.Duration) *Limiter {
	if limit <= 0 {
		limit = 60
	}
	if duration <= 0 {
		duration = time.Minute
	}
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// TryConsume reports whether the provider may issue one more request in the
// current window, incrementing the counter when it may.
func (l *Limiter) TryConsume(providerKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[providerKey]
	if !ok || now.Sub(w.startedAt) >= l.duration {
		l.windows[providerKey] = &window{requestCount: 1, startedAt: now}
		return true
	}

	if w.requestCount < l.limit {
		w.requestCount++
		return true
	}
	return false
}

// RetryAfter returns how long until the provider's window resets.
func (l *Limiter) RetryAfter(providerKey string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[providerKey]
	if !ok {
		return 0
	}
	remaining := l.duration - l.now().Sub(w.startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
