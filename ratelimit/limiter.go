package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits or rejects requests per caller using a token bucket. Each
// caller's bucket holds up to maxTokens and refills continuously at
// maxTokens/refillSeconds tokens per second. The check-and-decrement is
// atomic; there is no queuing or blocking.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[int64]*bucket
	maxTokens float64
	refill    time.Duration
	now       func() time.Time
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// New creates a limiter with the given capacity and refill interval. The
// interval is the time a fully drained bucket needs to refill completely.
func New(maxTokens int, refillSeconds int) *Limiter {
	return &Limiter{
		buckets:   make(map[int64]*bucket),
		maxTokens: float64(maxTokens),
		refill:    time.Duration(refillSeconds) * time.Second,
		now:       time.Now,
	}
}

// NewWithClock creates a limiter with an injected clock for tests.
func NewWithClock(maxTokens int, refillSeconds int, now func() time.Time) *Limiter {
	l := New(maxTokens, refillSeconds)
	l.now = now
	return l
}

// Allow consumes one token from the caller's bucket if available. Buckets are
// created lazily at full capacity; idle callers cost nothing beyond the map
// entry.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[userID]
	if !ok {
		b = &bucket{tokens: l.maxTokens, lastRefill: now}
		l.buckets[userID] = b
	} else {
		elapsed := now.Sub(b.lastRefill)
		if elapsed > 0 {
			b.tokens += l.maxTokens * elapsed.Seconds() / l.refill.Seconds()
			if b.tokens > l.maxTokens {
				b.tokens = l.maxTokens
			}
			b.lastRefill = now
		}
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}
