package tmdb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	t.Run("AllowsRequestsWithinLimit", func(t *testing.T) {
		rl := newRateLimiter(5, 1*time.Second)

		// Should allow 5 requests immediately
		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := rl.wait(context.Background()); err != nil {
				t.Errorf("wait() request %d error = %v, want nil", i+1, err)
			}
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("5 requests under limit took %v, expected < 100ms", elapsed)
		}
	})

	t.Run("BlocksExcessRequests", func(t *testing.T) {
		rl := newRateLimiter(2, 300*time.Millisecond)

		start := time.Now()
		for i := 0; i < 3; i++ {
			if err := rl.wait(context.Background()); err != nil {
				t.Errorf("wait() request %d error = %v, want nil", i+1, err)
			}
		}
		// The 3rd request waits for the window to slide
		if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
			t.Errorf("3rd request took %v, expected at least 300ms delay", elapsed)
		}
	})

	t.Run("CancelledWhileWaiting", func(t *testing.T) {
		rl := newRateLimiter(1, time.Minute)
		if err := rl.wait(context.Background()); err != nil {
			t.Fatalf("first wait() error = %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := rl.wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("wait() error = %v, want DeadlineExceeded", err)
		}
		if n := len(rl.requests); n != 1 {
			t.Errorf("cancelled wait recorded a request: %d in window", n)
		}
	})

	t.Run("ConcurrentRequests", func(t *testing.T) {
		rl := newRateLimiter(10, 200*time.Millisecond)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := rl.wait(context.Background()); err != nil {
					t.Errorf("wait() error = %v", err)
				}
			}()
		}
		wg.Wait()

		rl.mu.Lock()
		defer rl.mu.Unlock()
		if len(rl.requests) != 10 {
			t.Errorf("requests in window = %d, want 10", len(rl.requests))
		}
	})
}

func TestReserve(t *testing.T) {
	rl := newRateLimiter(2, time.Second)
	base := time.Unix(1_700_000_000, 0)

	if d := rl.reserve(base); d != 0 {
		t.Errorf("reserve #1 = %v, want 0", d)
	}
	if d := rl.reserve(base.Add(100 * time.Millisecond)); d != 0 {
		t.Errorf("reserve #2 = %v, want 0", d)
	}
	if d := rl.reserve(base.Add(500 * time.Millisecond)); d != 510*time.Millisecond {
		t.Errorf("reserve #3 = %v, want 510ms", d)
	}
	// The first request has left the window.
	if d := rl.reserve(base.Add(1001 * time.Millisecond)); d != 0 {
		t.Errorf("reserve #4 = %v, want 0", d)
	}
}
