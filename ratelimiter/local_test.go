package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestTokenBucket(t *testing.T) {
	clock := newClock()
	bucket := NewTokenBucket(10, 10, time.Minute)
	bucket.now = clock.Now
	bucket.lastRefill = clock.Now()

	if !bucket.Consume(5) {
		t.Fatal("failed to consume tokens from full bucket")
	}
	if bucket.remaining != 5 {
		t.Errorf("expected 5 remaining tokens, got %d", bucket.remaining)
	}
	if bucket.Consume(6) {
		t.Error("should not be able to consume more than remaining")
	}

	// Half an interval refills half the capacity.
	clock.Advance(30 * time.Second)
	if !bucket.Consume(10) {
		t.Error("expected partial refill to cover 10 tokens")
	}
	if bucket.Consume(1) {
		t.Error("bucket should be empty")
	}

	clock.Advance(time.Minute)
	if !bucket.HasCapacity(10) {
		t.Error("expected full refill after an interval")
	}
}

func TestTokenBucketNilNeverLimits(t *testing.T) {
	var bucket *TokenBucket
	if !bucket.Consume(1 << 20) {
		t.Error("nil bucket should always allow")
	}
	if d := bucket.TimeUntilAvailable(1 << 20); d != 0 {
		t.Errorf("nil bucket wait = %v, want 0", d)
	}
}

func TestRateLimiter_TryConsume(t *testing.T) {
	tests := []struct {
		name     string
		tokens   int
		requests int
		consume  []int
		want     []bool
	}{
		{"within limits", 100, 10, []int{10, 10}, []bool{true, true}},
		{"tokens exhausted", 10, 100, []int{10, 1}, []bool{true, false}},
		{"requests exhausted", 100, 1, []int{1, 1}, []bool{true, false}},
		{"token budget disabled", 0, 2, []int{1000, 1000, 1}, []bool{true, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewWithClock(tt.tokens, tt.requests, newClock().Now)
			for i, n := range tt.consume {
				if got := rl.TryConsume(n); got != tt.want[i] {
					t.Errorf("TryConsume(%d) #%d = %v, want %v", n, i, got, tt.want[i])
				}
			}
		})
	}
}

func TestRateLimiter_TryConsumeIsAllOrNothing(t *testing.T) {
	rl := NewWithClock(100, 1, newClock().Now)
	rl.RequestsBucket.Consume(1)

	if rl.TryConsume(50) {
		t.Fatal("expected failure with no requests left")
	}
	if !rl.TokensBucket.HasCapacity(100) {
		t.Error("tokens were consumed by a rejected request")
	}
}

func TestRateLimiter_TimeUntilAvailable(t *testing.T) {
	rl := NewWithClock(60, 60, newClock().Now) // 1 token per second
	rl.TokensBucket.Consume(60)

	wait := rl.TimeUntilAvailable(1)
	if wait < 900*time.Millisecond || wait > 1500*time.Millisecond {
		t.Errorf("expected wait around 1s, got %v", wait)
	}

	if got := rl.TimeUntilAvailable(61); got != time.Minute {
		t.Errorf("oversized request wait = %v, want one interval", got)
	}
}

func TestRateLimiter_WaitAndConsume(t *testing.T) {
	rl := NewWithClock(60, 60, newClock().Now)
	rl.TokensBucket.Consume(60)

	err := rl.WaitAndConsume(context.Background(), 30, time.Second)
	if !errors.Is(err, ErrWaitExceeded) {
		t.Errorf("expected ErrWaitExceeded, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.WaitAndConsume(ctx, 30, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	fresh := New(60, 60)
	if err := fresh.WaitAndConsume(context.Background(), 10, 0); err != nil {
		t.Errorf("WaitAndConsume with capacity: %v", err)
	}
}

func TestRateLimiter_WaitAndConsumeOversized(t *testing.T) {
	tests := []struct {
		name    string
		maxWait time.Duration
	}{
		{"no max wait", 0},
		{"long max wait", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(100, 10)
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := rl.WaitAndConsume(ctx, 500, tt.maxWait)
			if !errors.Is(err, ErrWaitExceeded) {
				t.Fatalf("expected ErrWaitExceeded, got %v", err)
			}
			if !rl.TokensBucket.HasCapacity(100) {
				t.Error("oversized request consumed tokens")
			}
		})
	}
}
