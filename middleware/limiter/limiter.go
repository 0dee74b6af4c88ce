// Package limiter provides a sliding-window rate limiter keyed by caller
// identity. It is in-memory; a multi-instance deployment should back it with
// Redis instead.
package limiter

import (
	"sync"
	"time"

	"github.com/sweetpotato0/krishigpt/config"
	"github.com/sweetpotato0/krishigpt/middleware"
)

// ErrRateLimitExceeded is re-exported from middleware.
var ErrRateLimitExceeded = middleware.ErrRateLimitExceeded

// Limit describes one rate limit class.
type Limit struct {
	MaxRequests   int
	WindowSeconds int
}

// Preset limits per endpoint class.
var (
	LimitDefault = Limit{MaxRequests: 100, WindowSeconds: 60}
	LimitChat    = Limit{MaxRequests: 30, WindowSeconds: 60}
	LimitAIQuery = Limit{MaxRequests: 20, WindowSeconds: 60}
	LimitAdmin   = Limit{MaxRequests: 50, WindowSeconds: 60}
	LimitAuth    = Limit{MaxRequests: 10, WindowSeconds: 60}
)

const cleanupInterval = 60 * time.Second

// RateLimiter tracks request timestamps per key within a sliding window.
type RateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	lastCleanup time.Time
	now         func() time.Time
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests:    make(map[string][]time.Time),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// SetClock overrides the limiter's time source, for tests.
func (r *RateLimiter) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Allow checks whether a request under the given key is allowed. It returns
// whether the request may proceed, how many requests remain in the window
// after this one, and the seconds until the window resets. An allowed request
// is recorded.
func (r *RateLimiter) Allow(key string, limit Limit) (bool, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	window := time.Duration(limit.WindowSeconds) * time.Second
	cutoff := now.Add(-window)

	r.cleanup(now, window)

	recent := r.requests[key][:0]
	for _, ts := range r.requests[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	r.requests[key] = recent

	reset := limit.WindowSeconds
	if len(recent) > 0 {
		oldest := recent[0]
		reset = int(oldest.Add(window).Sub(now).Seconds())
	}

	if len(recent) >= limit.MaxRequests {
		return false, 0, reset
	}

	r.requests[key] = append(recent, now)
	remaining := limit.MaxRequests - len(r.requests[key])
	return true, remaining, reset
}

// cleanup drops stale keys. Runs at most once per cleanupInterval; callers
// hold the mutex.
func (r *RateLimiter) cleanup(now time.Time, window time.Duration) {
	if now.Sub(r.lastCleanup) < cleanupInterval {
		return
	}
	r.lastCleanup = now
	cutoff := now.Add(-window)
	for key, timestamps := range r.requests {
		recent := timestamps[:0]
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				recent = append(recent, ts)
			}
		}
		if len(recent) == 0 {
			delete(r.requests, key)
		} else {
			r.requests[key] = recent
		}
	}
}

// Reset clears all recorded requests.
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = make(map[string][]time.Time)
}

// KeyFunc extracts the rate-limit key from a middleware context.
type KeyFunc func(*middleware.Context) string

// ConversationKey keys the limit by conversation ID, falling back to a
// shared bucket for anonymous requests.
func ConversationKey(ctx *middleware.Context) string {
	if ctx.ConversationID != "" {
		return "conv:" + ctx.ConversationID
	}
	return "conv:unknown"
}

// Limiter is the middleware wrapper around RateLimiter.
type Limiter struct {
	limiter *RateLimiter
	limit   Limit
	keyFn   KeyFunc
}

// New creates a rate limiting middleware with the given limit class.
func New(limit Limit, keyFn KeyFunc) (*Limiter, error) {
	if err := config.ValidateRateLimiterConfig(limit.MaxRequests, limit.WindowSeconds); err != nil {
		return nil, err
	}
	if keyFn == nil {
		keyFn = ConversationKey
	}
	return &Limiter{
		limiter: NewRateLimiter(),
		limit:   limit,
		keyFn:   keyFn,
	}, nil
}

// Name returns the middleware name
func (m *Limiter) Name() string {
	return "RateLimiter"
}

// Execute checks the rate limit and records the outcome in the context
// metadata under "ratelimit_remaining" and "ratelimit_reset".
func (m *Limiter) Execute(ctx *middleware.Context, next middleware.Handler) error {
	allowed, remaining, reset := m.limiter.Allow(m.keyFn(ctx), m.limit)
	if ctx.Metadata != nil {
		ctx.Metadata["ratelimit_remaining"] = remaining
		ctx.Metadata["ratelimit_reset"] = reset
	}
	if !allowed {
		return ErrRateLimitExceeded
	}
	return next(ctx)
}

// Reset clears the underlying limiter state.
func (m *Limiter) Reset() {
	m.limiter.Reset()
}
