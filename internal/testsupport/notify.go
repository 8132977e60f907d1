package testsupport

import (
	"context"
	"sync"

	"ttsdeck/internal/notifications"
)

// Notification is one recorded Notify call.
type Notification struct {
	User  notifications.UserID
	Event notifications.Event
}

// RecorderNotifier captures every event for later assertions. Safe for
// concurrent use.
type RecorderNotifier struct {
	mu     sync.Mutex
	events []Notification
}

func NewRecorderNotifier() *RecorderNotifier {
	return &RecorderNotifier{}
}

func (r *RecorderNotifier) Notify(_ context.Context, user notifications.UserID, event notifications.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Notification{User: user, Event: event})
	return nil
}

// Events returns a snapshot of everything recorded so far.
func (r *RecorderNotifier) Events() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.events))
	copy(out, r.events)
	return out
}

// EventsFor filters the snapshot to one user.
func (r *RecorderNotifier) EventsFor(user notifications.UserID) []notifications.Event {
	var out []notifications.Event
	for _, n := range r.Events() {
		if n.User == user {
			out = append(out, n.Event)
		}
	}
	return out
}
