package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
)

// =============================================================================
// Creation
// =============================================================================

func TestPool_Create(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 4, 4},
		{"zero uses GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative uses GOMAXPROCS", -3, runtime.GOMAXPROCS(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.workers)
			defer p.Close()

			if p.Workers() != tt.want {
				t.Errorf("Workers() = %d, want %d", p.Workers(), tt.want)
			}
			if !p.IsRunning() {
				t.Error("pool should be running after creation")
			}
		})
	}
}

// =============================================================================
// Run
// =============================================================================

func TestPool_RunVisitsEveryIndexOnce(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	for _, n := range []int{0, 1, 3, 16, 257} {
		hits := make([]atomic.Int32, n)
		p.Run(n, func(i int) { hits[i].Add(1) })

		for i := range hits {
			if got := hits[i].Load(); got != 1 {
				t.Fatalf("n=%d: index %d ran %d times", n, i, got)
			}
		}
	}
}

func TestPool_RunAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	if p.IsRunning() {
		t.Error("pool still running after Close")
	}

	var count atomic.Int32
	p.Run(10, func(int) { count.Add(1) })
	if count.Load() != 10 {
		t.Errorf("Run after Close executed %d jobs, want 10", count.Load())
	}
}

func TestPool_ConcurrentRun(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	var total atomic.Int64
	done := make(chan struct{})
	for range 4 {
		go func() {
			p.Run(50, func(i int) { total.Add(int64(i)) })
			done <- struct{}{}
		}()
	}
	for range 4 {
		<-done
	}

	if want := int64(4 * 49 * 50 / 2); total.Load() != want {
		t.Errorf("total = %d, want %d", total.Load(), want)
	}
}
