package reddit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MinBuffer is the minimum remaining requests before waiting for reset.
	MinBuffer = 2

	// HeaderRateUsed is the used requests header.
	HeaderRateUsed = "X-Ratelimit-Used"

	// HeaderRateRemaining is the remaining requests header (may be fractional).
	HeaderRateRemaining = "X-Ratelimit-Remaining"

	// HeaderRateReset is the seconds until the window resets.
	HeaderRateReset = "X-Ratelimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter combines a proactive token bucket with the server's reported quota.
type RateLimiter struct {
	mu        sync.Mutex
	remaining float64       // From API header
	used      int           // From API header
	resetTime time.Time     // Derived from API header
	bucket    *rate.Limiter // Proactive throttling
	minBuffer float64       // Reserve requests
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute requests.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &RateLimiter{
		remaining: float64(requestsPerMinute), // Assume full quota initially
		bucket:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 1),
		minBuffer: MinBuffer,
		now:       time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	now := r.now()
	r.mu.Unlock()

	if remaining < r.minBuffer && now.Before(resetTime) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(resetTime.Sub(now)):
		}
	}

	return nil
}

// UpdateFromResponse updates rate limit state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.ParseFloat(remaining, 64); err == nil {
			r.remaining = val
		}
	}
	if used := resp.Header.Get(HeaderRateUsed); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			r.used = val
		}
	}
	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseFloat(reset, 64); err == nil {
			r.resetTime = r.now().Add(time.Duration(val * float64(time.Second)))
		}
	}
}

// CheckRateLimit returns a RateLimitError for 429 responses, nil otherwise.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	r.UpdateFromResponse(resp)

	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	r.mu.Lock()
	resetTime := r.resetTime
	remaining := r.remaining
	r.mu.Unlock()

	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			resetTime = r.now().Add(time.Duration(seconds) * time.Second)
		}
	}

	return &RateLimitError{ResetAt: resetTime, Remaining: remaining}
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Used returns the requests used in the current window.
func (r *RateLimiter) Used() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used
}

// ResetTime returns the rate limit reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
