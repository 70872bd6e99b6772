package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter is a token bucket refilled continuously at requestsPerMinute.
// Tokens are computed from elapsed time on demand, so no goroutine is held.
type rateLimiter struct {
	last     time.Time
	now      func() time.Time
	interval time.Duration
	tokens   float64
	capacity float64
	mu       sync.Mutex
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	rl := &rateLimiter{
		now:      time.Now,
		interval: time.Minute / time.Duration(requestsPerMinute),
		tokens:   float64(requestsPerMinute),
		capacity: float64(requestsPerMinute),
	}
	rl.last = rl.now()
	return rl
}

// reserve takes a token if one is available. Otherwise it reports how long
// until the next token accrues.
func (rl *rateLimiter) reserve() (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if elapsed := now.Sub(rl.last); elapsed > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+float64(elapsed)/float64(rl.interval))
		rl.last = now
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true, 0
	}
	return false, time.Duration((1 - rl.tokens) * float64(rl.interval))
}

func (rl *rateLimiter) tryAcquire() bool {
	ok, _ := rl.reserve()
	return ok
}

// wait blocks until a token is available or ctx ends.
func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		ok, delay := rl.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// rateLimitedClient gates every call to the wrapped client through a rateLimiter.
type rateLimitedClient struct {
	next    Client
	limiter *rateLimiter
}

func newRateLimitedClient(next Client, requestsPerMinute int) *rateLimitedClient {
	return &rateLimitedClient{
		next:    next,
		limiter: newRateLimiter(requestsPerMinute),
	}
}

// Generate waits for a token, then delegates.
func (c *rateLimitedClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}
	return c.next.Generate(ctx, prompt)
}

// Close closes the wrapped client.
func (c *rateLimitedClient) Close() error {
	closeClient(c.next)
	return nil
}
