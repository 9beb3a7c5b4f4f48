package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RequestBudget tracks the rate limit GitHub reports on each response and
// blocks callers once the remaining allowance is spent.
type RequestBudget struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	cooldown  time.Time
	now       func() time.Time
}

func NewRequestBudget() *RequestBudget {
	return &RequestBudget{
		remaining: 5000, // authenticated REST default until a response says otherwise
		reset:     time.Now().Add(1 * time.Hour),
		now:       time.Now,
	}
}

func (b *RequestBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Wait reserves one request. It blocks while a Retry-After cooldown is active
// or while the allowance is exhausted and the reset time has not passed.
// Once the reset time has passed, requests go through until a response
// refreshes the counters.
func (b *RequestBudget) Wait(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("Wait: nil context")
	}
	if b == nil {
		return fmt.Errorf("Wait: nil RequestBudget")
	}

	for {
		b.mu.Lock()
		now := b.now()

		var until time.Time
		switch {
		case now.Before(b.cooldown):
			until = b.cooldown
		case b.remaining > 0:
			b.remaining--
			b.mu.Unlock()
			return nil
		case now.Before(b.reset):
			until = b.reset
		default:
			b.mu.Unlock()
			return nil
		}
		b.mu.Unlock()

		timer := time.NewTimer(until.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Observe updates the budget from the rate limit headers on resp.
func (b *RequestBudget) Observe(resp *http.Response) {
	if b == nil || resp == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			until := b.now().Add(time.Duration(seconds) * time.Second)
			if until.After(b.cooldown) {
				b.cooldown = until
			}
		}
	}

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil && val >= 0 {
			b.remaining = val
		}
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil && val > 0 {
			b.reset = time.Unix(val, 0)
		}
	}
}
