package core

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolSize(t *testing.T) {
	cpus := runtime.NumCPU()
	tests := []struct {
		requested int
		want      int
	}{
		{requested: 0, want: 1},
		{requested: -3, want: 1},
		{requested: 1, want: 1},
		{requested: 1000, want: max(1, cpus-1)},
	}
	for _, tc := range tests {
		if got := PoolSize(tc.requested); got != tc.want {
			t.Errorf("PoolSize(%d) = %d, want %d", tc.requested, got, tc.want)
		}
	}
}

func TestSharedPoolInitializedOnce(t *testing.T) {
	first := SharedPool(2)
	second := SharedPool(64)
	if first != second {
		t.Error("SharedPool() returned a different pool on the second call")
	}
	if first.Size() < 1 {
		t.Errorf("Size() = %d", first.Size())
	}
}

func TestPoolRunCollectsErrorsByIndex(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	errs := NewPool(3).Run(context.Background(), 10, func(ctx context.Context, i int) error {
		calls.Add(1)
		if i%4 == 1 {
			return boom
		}
		return nil
	})

	if calls.Load() != 10 {
		t.Errorf("fn called %d times, want 10", calls.Load())
	}
	for i, err := range errs {
		if want := i%4 == 1; (err != nil) != want {
			t.Errorf("errs[%d] = %v", i, err)
		}
	}
	if got := firstError(errs); !errors.Is(got, boom) {
		t.Errorf("firstError() = %v", got)
	}
}

func TestPoolRunBoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	NewPool(2).Run(context.Background(), 12, func(ctx context.Context, i int) error {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return nil
	})
	if peak.Load() > 2 {
		t.Errorf("peak concurrency %d, want at most 2", peak.Load())
	}
}

func TestPoolRunEmpty(t *testing.T) {
	errs := NewPool(4).Run(context.Background(), 0, func(context.Context, int) error {
		t.Error("fn called for an empty batch")
		return nil
	})
	if len(errs) != 0 {
		t.Errorf("len(errs) = %d", len(errs))
	}
}

func TestPoolRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := NewPool(1).Run(ctx, 5, func(ctx context.Context, i int) error { return nil })
	cancelled := 0
	for _, err := range errs {
		if errors.Is(err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled != 5 {
		t.Errorf("%d items reported cancelled, want 5", cancelled)
	}
}
