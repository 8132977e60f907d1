package notifications

import (
	"context"
	"sync"
)

// Bus is an in-process publish/subscribe Service. Each subscriber owns a
// buffered channel; a subscriber that falls behind loses the oldest
// events rather than blocking the render.
type Bus struct {
	mu          sync.Mutex
	subscribers map[UserID]map[int]chan Event
	nextID      int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[UserID]map[int]chan Event)}
}

const subscriberBuffer = 64

// Notify delivers the event to every subscriber of the user.
func (b *Bus) Notify(ctx context.Context, user UserID, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers[user] {
		select {
		case ch <- event:
		default:
			// Drop the oldest buffered event to make room for the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
	return nil
}

// Subscribe registers a listener for one user's events. The returned
// cancel function removes the subscription and closes the channel.
func (b *Bus) Subscribe(user UserID) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	if b.subscribers[user] == nil {
		b.subscribers[user] = make(map[int]chan Event)
	}
	b.subscribers[user][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.subscribers[user]; ok {
			if ch, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(b.subscribers, user)
			}
		}
	}
	return ch, cancel
}
