package identity

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned when a key has used up its attempts for the window
var ErrRateLimited = errors.New("too many attempts, try again later")

// Limiter allows a fixed number of attempts per key in each window. Buckets
// refill all at once when their window ends.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type bucket struct {
	remaining int
	resetAt   time.Time
}

// NewLimiter creates a limiter allowing limit attempts per key per window
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow consumes one attempt for key and reports whether it was available
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{remaining: l.limit, resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Reset forgets every attempt made for key
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// sweep drops finished buckets, at most once per window
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, b := range l.buckets {
		if !now.Before(b.resetAt) {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
