// Package fanin runs independent units of work under bounded parallelism
// and yields their results as a stream ordered by completion.
//
// A unit that finishes late never blocks delivery of units that finished
// earlier, which matters when unit latency varies wildly (an image cache
// hit versus a network fetch with downgrade retries). Abandoning a stream
// early cancels queued units and waits out in-flight ones, so no background
// goroutines outlive the stream.
package fanin

import (
	"context"
	"sync"
)

// Stream delivers results of concurrently executed work units in the order
// they complete.
type Stream[T any] struct {
	results chan T
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// New starts executing units with at most parallelism of them running
// concurrently. As soon as a slot frees, the next queued unit starts.
// Each unit receives a context that is cancelled when the stream is closed
// or the parent context ends.
func New[T any](ctx context.Context, parallelism int, units []func(context.Context) T) *Stream[T] {
	if parallelism < 1 {
		parallelism = 1
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Stream[T]{
		results: make(chan T),
		cancel:  cancel,
	}

	slots := make(chan struct{}, parallelism)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, unit := range units {
			select {
			case <-runCtx.Done():
				return
			case slots <- struct{}{}:
			}
			unit := unit
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer func() { <-slots }()
				value := unit(runCtx)
				select {
				case s.results <- value:
				case <-runCtx.Done():
				}
			}()
		}
	}()

	go func() {
		s.wg.Wait()
		close(s.results)
	}()

	return s
}

// C returns the result channel. It is closed once every started unit has
// delivered its result and no more units remain.
func (s *Stream[T]) C() <-chan T {
	return s.results
}

// Close cancels queued and in-flight units and blocks until all goroutines
// have finished. Results still buffered are discarded. Close is safe to
// call multiple times and after the stream is exhausted.
func (s *Stream[T]) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		for range s.results {
		}
	})
}
