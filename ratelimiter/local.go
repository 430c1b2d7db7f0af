package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrWaitExceeded is returned by WaitAndConsume when the required wait is
// longer than the caller allows.
var ErrWaitExceeded = errors.New("rate limit wait exceeds max wait")

// RateLimiter is an in-memory Limiter with a per-minute token budget and a
// per-minute request budget.
type RateLimiter struct {
	TokensBucket   *TokenBucket
	RequestsBucket *TokenBucket

	mu sync.Mutex
}

var _ Limiter = (*RateLimiter)(nil)

// New creates a RateLimiter refilled every minute. A non-positive limit
// disables that budget.
func New(tokensPerMinute, requestsPerMinute int) *RateLimiter {
	return NewWithClock(tokensPerMinute, requestsPerMinute, time.Now)
}

// NewWithClock is New with an injectable clock.
func NewWithClock(tokensPerMinute, requestsPerMinute int, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		TokensBucket:   newBucket(tokensPerMinute, time.Minute, now),
		RequestsBucket: newBucket(requestsPerMinute, time.Minute, now),
	}
}

func newBucket(limit int, interval time.Duration, now func() time.Time) *TokenBucket {
	if limit <= 0 {
		return nil
	}
	b := NewTokenBucket(limit, limit, interval)
	b.now = now
	b.lastRefill = now()
	return b
}

// HasCapacity reports whether TryConsume(numTokens) would succeed.
func (rl *RateLimiter) HasCapacity(numTokens int) bool {
	return rl.TokensBucket.HasCapacity(numTokens) && rl.RequestsBucket.HasCapacity(1)
}

// TryConsume takes numTokens and one request, or nothing.
func (rl *RateLimiter) TryConsume(numTokens int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.HasCapacity(numTokens) {
		return false
	}
	rl.TokensBucket.Consume(numTokens)
	rl.RequestsBucket.Consume(1)
	return true
}

// TimeUntilAvailable returns the longer of the token and request waits.
func (rl *RateLimiter) TimeUntilAvailable(tokens int) time.Duration {
	return max(rl.TokensBucket.TimeUntilAvailable(tokens), rl.RequestsBucket.TimeUntilAvailable(1))
}

// WaitAndConsume waits until tokens are available (up to maxWait), then consumes them.
// Requests larger than the token capacity fail at once with ErrWaitExceeded.
func (rl *RateLimiter) WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error {
	if c := rl.TokensBucket.Capacity(); c > 0 && tokens > c {
		return fmt.Errorf("%w: %d tokens exceed capacity %d", ErrWaitExceeded, tokens, c)
	}
	for {
		if rl.TryConsume(tokens) {
			return nil
		}

		wait := rl.TimeUntilAvailable(tokens)
		if wait <= 0 {
			// Rounding left us just short; retry shortly.
			wait = time.Millisecond
		}
		if maxWait > 0 && wait > maxWait {
			return fmt.Errorf("%w: %v > %v", ErrWaitExceeded, wait, maxWait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if maxWait > 0 {
			maxWait -= wait
			if maxWait <= 0 {
				maxWait = time.Nanosecond
			}
		}
	}
}

// TokenBucket implements a token bucket that refills fully once per interval
// and proportionally in between. A nil bucket never limits.
type TokenBucket struct {
	mu             sync.Mutex
	capacity       int
	remaining      int
	refillInterval time.Duration
	lastRefill     time.Time
	now            func() time.Time
}

// NewTokenBucket creates a new token bucket.
func NewTokenBucket(capacity int, initialTokens int, refillInterval time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:       capacity,
		remaining:      initialTokens,
		refillInterval: refillInterval,
		lastRefill:     time.Now(),
		now:            time.Now,
	}
}

// Capacity is the bucket size. A nil bucket reports 0.
func (tb *TokenBucket) Capacity() int {
	if tb == nil {
		return 0
	}
	return tb.capacity
}

// available returns the tokens available now without mutating state.
func (tb *TokenBucket) available() int {
	elapsed := tb.now().Sub(tb.lastRefill)
	if elapsed >= tb.refillInterval {
		return tb.capacity
	}
	if elapsed <= 0 {
		return tb.remaining
	}
	replenished := int(float64(tb.capacity) * (float64(elapsed) / float64(tb.refillInterval)))
	return min(tb.capacity, tb.remaining+replenished)
}

// HasCapacity checks if tokens are available without consuming them.
func (tb *TokenBucket) HasCapacity(tokens int) bool {
	if tb == nil {
		return true
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tokens <= tb.available()
}

// Consume takes tokens from the bucket if enough are available.
func (tb *TokenBucket) Consume(tokens int) bool {
	if tb == nil {
		return true
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()

	avail := tb.available()
	if tokens > avail {
		return false
	}
	tb.remaining = avail - tokens
	tb.lastRefill = tb.now()
	return true
}

// TimeUntilAvailable returns how long until tokens would be available.
// Requests larger than the capacity report one full interval.
func (tb *TokenBucket) TimeUntilAvailable(tokens int) time.Duration {
	if tb == nil {
		return 0
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()

	avail := tb.available()
	if tokens <= avail {
		return 0
	}
	if tokens > tb.capacity {
		return tb.refillInterval
	}

	needed := tokens - avail
	rate := float64(tb.capacity) / float64(tb.refillInterval)
	wait := time.Duration(float64(needed) / rate)

	// 10% headroom against truncation in the proportional refill.
	return wait + wait/10
}
