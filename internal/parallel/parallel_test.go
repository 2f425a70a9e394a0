package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestForCoversEveryIndex(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 1 // force parallel path even for small n

	n := 513 // not a multiple of the worker count
	seen := make([]int32, n)
	For(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestForSequential(t *testing.T) {
	cfg := Sequential()

	order := make([]int, 0, 100)
	For(100, func(i int) {
		order = append(order, i)
	}, cfg)

	for i, got := range order {
		if got != i {
			t.Fatalf("sequential run out of order at %d: %d", i, got)
		}
	}
}

func TestForSmallFallsBackToSequential(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 64

	// n below MinChunkSize runs on the calling goroutine, so an unguarded
	// append is safe here.
	var count int
	For(10, func(_ int) { count++ }, cfg)
	if count != 10 {
		t.Errorf("Expected 10, got %d", count)
	}
}
