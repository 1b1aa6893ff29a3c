package middleware

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a fixed-window, in-memory limiter keyed by user id.
type RateLimiter struct {
	limits map[string]*userLimit
	mu     sync.Mutex

	maxRequests int
	window      time.Duration
	now         func() time.Time
}

type userLimit struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window for each user.
// A non-positive maxRequests disables limiting.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limits:      make(map[string]*userLimit),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow records a request and reports whether the user is still within the limit.
func (rl *RateLimiter) Allow(userID string) bool {
	if rl.maxRequests <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	limit, exists := rl.limits[userID]
	if !exists || now.After(limit.resetTime) {
		rl.limits[userID] = &userLimit{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if limit.requests >= rl.maxRequests {
		return false
	}
	limit.requests++
	return true
}

// Remaining returns how many requests the user has left in the current window.
func (rl *RateLimiter) Remaining(userID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit, exists := rl.limits[userID]
	if !exists || rl.now().After(limit.resetTime) {
		return rl.maxRequests
	}

	remaining := rl.maxRequests - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RunCleanup drops expired windows every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for userID, limit := range rl.limits {
		if now.After(limit.resetTime) {
			delete(rl.limits, userID)
		}
	}
}
