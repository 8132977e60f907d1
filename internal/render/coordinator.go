package render

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ttsdeck/internal/deck"
	"ttsdeck/internal/logging"
	"ttsdeck/internal/notifications"
)

// Coordinator serializes renders process-wide so only one set of page
// buffers is in memory at a time. It is an injectable service: construct
// one at process start and pass it to every render.
//
// Waiters poll the lock with a fixed backoff rather than queueing, so
// scheduling among waiters is not FIFO. While waiting, every pending user
// is told the current queue length (pending waiters plus the active
// render).
type Coordinator struct {
	notifier notifications.Service
	logger   *slog.Logger
	poll     time.Duration

	mu      sync.Mutex
	pending map[deck.ID]notifications.UserID
	locked  bool
}

// NewCoordinator creates a coordinator broadcasting queue positions via
// notifier. poll controls the lock retry interval; zero means one second.
func NewCoordinator(notifier notifications.Service, logger *slog.Logger, poll time.Duration) *Coordinator {
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &Coordinator{
		notifier: notifier,
		logger:   logging.WithComponent(logger, "coordinator"),
		poll:     poll,
		pending:  make(map[deck.ID]notifications.UserID),
	}
}

// Guard represents lock ownership. Release it when the render finishes,
// successfully or not; deferring Release guarantees a failed render never
// starves subsequent renders.
type Guard struct {
	c    *Coordinator
	once sync.Once
}

// Release frees the render lock. Safe to call multiple times.
func (g *Guard) Release() {
	if g == nil {
		return
	}
	g.once.Do(func() {
		g.c.mu.Lock()
		g.c.locked = false
		g.c.mu.Unlock()
	})
}

// Acquire blocks until the caller holds the process-wide render lock. The
// request joins the pending set immediately so other users can see a
// render is queued. Cancelling ctx abandons the wait and leaves the
// pending set.
func (c *Coordinator) Acquire(ctx context.Context, deckID deck.ID, userID notifications.UserID) (*Guard, error) {
	c.mu.Lock()
	c.pending[deckID] = userID
	c.mu.Unlock()

	for {
		acquired, waiting, queueLength := c.tryAcquire(deckID)
		for _, user := range waiting {
			if err := c.notifier.Notify(ctx, user, notifications.Waiting{QueueLength: queueLength}); err != nil {
				c.logger.Warn("queue length notification failed",
					logging.Args(logging.Error(err))...)
			}
		}
		if acquired {
			c.logger.Debug("render lock acquired",
				logging.Args(logging.String("deck", deckID.String()))...)
			return &Guard{c: c}, nil
		}

		select {
		case <-ctx.Done():
			c.mu.Lock()
			delete(c.pending, deckID)
			c.mu.Unlock()
			return nil, ctx.Err()
		case <-time.After(c.poll):
		}
	}
}

// tryAcquire attempts the lock once. On success the requester leaves the
// pending set and the remaining waiters get the shortened queue length.
// On failure every pending user (the requester included) gets the current
// length, counting the render in progress.
func (c *Coordinator) tryAcquire(deckID deck.ID) (acquired bool, waiting []notifications.UserID, queueLength int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.locked {
		c.locked = true
		delete(c.pending, deckID)
		for _, user := range c.pending {
			waiting = append(waiting, user)
		}
		return true, waiting, len(c.pending) + 1
	}

	for _, user := range c.pending {
		waiting = append(waiting, user)
	}
	return false, waiting, len(c.pending) + 1
}
