package fanin_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ttsdeck/internal/fanin"
)

func TestResultsArriveInCompletionOrder(t *testing.T) {
	// The first submitted unit waits on a gate, so every later unit
	// finishes before it. A strict FIFO fan-in would deadlock here
	// because nothing releases the gate until the fast units drain.
	gate := make(chan struct{})
	units := []func(context.Context) int{
		func(context.Context) int {
			<-gate
			return 0
		},
		func(context.Context) int { return 1 },
		func(context.Context) int { return 2 },
	}

	stream := fanin.New(context.Background(), 3, units)
	defer stream.Close()

	got := make([]int, 0, len(units))
	for i := 0; i < 2; i++ {
		got = append(got, <-stream.C())
	}
	close(gate)
	got = append(got, <-stream.C())

	if got[2] != 0 {
		t.Errorf("slow unit delivered at position %d, want last (results %v)", got[2], got)
	}
	seen := map[int]bool{}
	for _, v := range got {
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Errorf("results = %v, want all three units once", got)
	}

	if _, ok := <-stream.C(); ok {
		t.Error("channel still open after all units completed")
	}
}

func TestParallelismIsBounded(t *testing.T) {
	const parallelism = 3
	const unitCount = 20

	var running, peak atomic.Int32
	units := make([]func(context.Context) struct{}, unitCount)
	for i := range units {
		units[i] = func(context.Context) struct{} {
			now := running.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
			return struct{}{}
		}
	}

	stream := fanin.New(context.Background(), parallelism, units)
	defer stream.Close()

	count := 0
	for range stream.C() {
		count++
	}
	if count != unitCount {
		t.Fatalf("received %d results, want %d", count, unitCount)
	}
	if p := peak.Load(); p > parallelism {
		t.Errorf("peak concurrency %d exceeds limit %d", p, parallelism)
	}
}

func TestCloseDoesNotLeakWork(t *testing.T) {
	var started sync.WaitGroup
	started.Add(1)
	var startedOnce sync.Once

	release := make(chan struct{})
	var finished atomic.Int32
	units := make([]func(context.Context) int, 10)
	for i := range units {
		i := i
		units[i] = func(ctx context.Context) int {
			startedOnce.Do(started.Done)
			select {
			case <-release:
			case <-ctx.Done():
			}
			finished.Add(1)
			return i
		}
	}

	stream := fanin.New(context.Background(), 2, units)
	started.Wait()
	stream.Close()

	// Close cancels in-flight units and waits for them, so by now no
	// goroutine is still running a unit.
	if f := finished.Load(); f == 0 {
		t.Error("Close returned before in-flight units observed cancellation")
	}
	select {
	case _, ok := <-stream.C():
		if ok {
			t.Error("expected a closed, drained results channel")
		}
	default:
		t.Error("results channel not closed after Close")
	}
}

func TestEmptyUnitListClosesImmediately(t *testing.T) {
	stream := fanin.New[int](context.Background(), 4, nil)
	select {
	case _, ok := <-stream.C():
		if ok {
			t.Error("unexpected result from empty stream")
		}
	case <-time.After(time.Second):
		t.Error("empty stream did not close")
	}
}
