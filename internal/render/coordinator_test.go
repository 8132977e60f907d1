package render_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ttsdeck/internal/deck"
	"ttsdeck/internal/logging"
	"ttsdeck/internal/notifications"
	"ttsdeck/internal/render"
	"ttsdeck/internal/testsupport"
)

func TestAcquireIsImmediateWhenFree(t *testing.T) {
	c := render.NewCoordinator(nil, logging.NewNop(), time.Millisecond)

	guard, err := c.Acquire(context.Background(), deck.NewID(), 1)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	guard.Release()

	guard, err = c.Acquire(context.Background(), deck.NewID(), 1)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	guard.Release()
}

func TestSecondWaiterSeesQueueLengthTwo(t *testing.T) {
	recorder := testsupport.NewRecorderNotifier()
	c := render.NewCoordinator(recorder, logging.NewNop(), time.Millisecond)

	first, err := c.Acquire(context.Background(), deck.NewID(), 1)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	acquired := make(chan *render.Guard)
	go func() {
		guard, err := c.Acquire(context.Background(), deck.NewID(), 2)
		if err != nil {
			t.Errorf("second Acquire: %v", err)
		}
		acquired <- guard
	}()

	// Wait until the second request has broadcast at least one queue
	// position before releasing the lock.
	deadline := time.After(5 * time.Second)
	for {
		events := recorder.EventsFor(2)
		if len(events) > 0 {
			waiting, ok := events[0].(notifications.Waiting)
			if !ok {
				t.Fatalf("event = %T, want Waiting", events[0])
			}
			if waiting.QueueLength != 2 {
				t.Errorf("queue length = %d, want 2 (waiter plus active render)", waiting.QueueLength)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("no Waiting notification observed")
		case <-time.After(time.Millisecond):
		}
	}

	first.Release()
	guard := <-acquired
	guard.Release()
}

func TestReleaseIsIdempotentAndRunsOnErrorPaths(t *testing.T) {
	c := render.NewCoordinator(nil, logging.NewNop(), time.Millisecond)

	func() {
		guard, err := c.Acquire(context.Background(), deck.NewID(), 1)
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		defer guard.Release()
		guard.Release()
	}()

	done := make(chan struct{})
	go func() {
		guard, err := c.Acquire(context.Background(), deck.NewID(), 1)
		if err != nil {
			t.Errorf("Acquire after double release: %v", err)
		} else {
			guard.Release()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock still held after release")
	}
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	c := render.NewCoordinator(nil, logging.NewNop(), time.Millisecond)

	guard, err := c.Acquire(context.Background(), deck.NewID(), 1)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer guard.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Acquire(ctx, deck.NewID(), 2)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}
