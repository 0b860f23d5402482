package mdpress

// Notes:
// - Most tests swap newConv for a counter so no options are resolved; the
//   converters built that way never start a browser.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingPool returns a pool of n whose converters are bare structs, and
// the number built so far.
func countingPool(n int) (*ConverterPool, *atomic.Int32) {
	var builds atomic.Int32
	p := NewConverterPool(n)
	p.newConv = func(...Option) (*Converter, error) {
		builds.Add(1)
		return &Converter{}, nil
	}
	return p, &builds
}

func mustAcquire(t *testing.T, pool *ConverterPool) *Converter {
	t.Helper()
	conv, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if conv == nil {
		t.Fatal("Acquire() returned nil")
	}
	return conv
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize - Worker count
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	auto := min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
	tests := []struct {
		workers int
		want    int
	}{
		{4, 4},
		{1, 1},
		{16, 16}, // explicit values are not capped
		{0, auto},
		{-5, auto},
	}

	for _, tt := range tests {
		if got := ResolvePoolSize(tt.workers); got != tt.want {
			t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
		}
	}
	if auto < MinPoolSize || auto > MaxPoolSize {
		t.Errorf("auto size %d outside [%d, %d]", auto, MinPoolSize, MaxPoolSize)
	}
}

// ---------------------------------------------------------------------------
// TestConverterPool - Lending and reuse
// ---------------------------------------------------------------------------

func TestConverterPool_ReusesReleased(t *testing.T) {
	t.Parallel()

	pool, builds := countingPool(2)
	defer pool.Close()

	a := mustAcquire(t, pool)
	b := mustAcquire(t, pool)
	if a == b {
		t.Fatal("two holders got the same converter")
	}

	pool.Release(a)
	if c := mustAcquire(t, pool); c != a {
		t.Error("released converter was not reused")
	}
	if n := builds.Load(); n != 2 {
		t.Errorf("built %d converters, want 2", n)
	}
}

func TestConverterPool_BuildsOnDemand(t *testing.T) {
	t.Parallel()

	pool, builds := countingPool(8)
	defer pool.Close()

	for range 5 {
		pool.Release(mustAcquire(t, pool))
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("sequential use built %d converters, want 1", n)
	}
}

func TestConverterPool_WaitHonorsContext(t *testing.T) {
	t.Parallel()

	pool, _ := countingPool(1)
	defer pool.Close()
	held := mustAcquire(t, pool)
	defer pool.Release(held)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() error = %v, want DeadlineExceeded", err)
	}
}

func TestConverterPool_OptionsApplied(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, WithStyle("compact"), WithLocale("de"))
	defer pool.Close()

	conv := mustAcquire(t, pool)
	defer pool.Release(conv)

	if conv.cfg.resolvedStyle == "" {
		t.Error("pool options should resolve the compact style")
	}
	if conv.cfg.locale != "de" {
		t.Errorf("locale = %q, want de", conv.cfg.locale)
	}
}

func TestConverterPool_FailedBuildFreesSlot(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, WithStyle("nonexistent"))
	defer pool.Close()

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrStyleNotFound) {
		t.Fatalf("Acquire() error = %v, want ErrStyleNotFound", err)
	}

	pool.opts = nil
	pool.Release(mustAcquire(t, pool))
}

func TestConverterPool_Size(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct{ n, want int }{{1, 1}, {4, 4}, {0, 1}, {-1, 1}} {
		pool := NewConverterPool(tt.n)
		if got := pool.Size(); got != tt.want {
			t.Errorf("NewConverterPool(%d).Size() = %d, want %d", tt.n, got, tt.want)
		}
		_ = pool.Close()
	}
}

func TestConverterPool_Contention(t *testing.T) {
	t.Parallel()

	pool, builds := countingPool(2)
	defer pool.Close()

	var inUse, peak atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 10 {
				conv, err := pool.Acquire(context.Background())
				if err != nil {
					t.Errorf("Acquire() error = %v", err)
					return
				}
				n := inUse.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				inUse.Add(-1)
				pool.Release(conv)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("contention test timed out, possible deadlock")
	}

	if p := peak.Load(); p > 2 {
		t.Errorf("peak holders = %d, want at most 2", p)
	}
	if n := builds.Load(); n > 2 {
		t.Errorf("built %d converters, want at most 2", n)
	}
}

// ---------------------------------------------------------------------------
// TestConverterPool_Close - Shutdown
// ---------------------------------------------------------------------------

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	t.Run("twice", func(t *testing.T) {
		t.Parallel()

		pool, _ := countingPool(1)
		if err := pool.Close(); err != nil {
			t.Errorf("first Close() error = %v", err)
		}
		if err := pool.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
	})

	t.Run("acquire after close", func(t *testing.T) {
		t.Parallel()

		pool, _ := countingPool(2)
		_ = pool.Close()

		if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
			t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
		}
	})

	t.Run("waiter wakes on release after close", func(t *testing.T) {
		t.Parallel()

		pool, _ := countingPool(1)
		held := mustAcquire(t, pool)

		errc := make(chan error, 1)
		go func() {
			_, err := pool.Acquire(context.Background())
			errc <- err
		}()

		_ = pool.Close()
		pool.Release(held)

		select {
		case err := <-errc:
			if !errors.Is(err, ErrPoolClosed) {
				t.Errorf("waiter error = %v, want ErrPoolClosed", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("waiter never woke up")
		}
	})

	t.Run("release nil is ignored", func(t *testing.T) {
		t.Parallel()

		pool, _ := countingPool(1)
		defer pool.Close()
		pool.Release(nil)
		pool.Release(mustAcquire(t, pool))
	})
}
