package ratelimiter

import (
	"context"
	"time"
)

// Limiter guards calls to the image generation API.
// Each call costs one request plus an estimated number of prompt tokens.
type Limiter interface {
	// TryConsume takes tokens and one request if both are available.
	// Nothing is consumed when it returns false.
	TryConsume(numTokens int) bool

	// TimeUntilAvailable reports how long until TryConsume(tokens) would succeed.
	TimeUntilAvailable(tokens int) time.Duration

	// WaitAndConsume blocks until capacity is available, then consumes it.
	// A zero maxWait means no limit.
	WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error
}
