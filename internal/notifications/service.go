package notifications

import (
	"context"
)

// UserID identifies the user a notification is addressed to.
type UserID int64

// Event is one render-progress notification.
type Event interface {
	Kind() string
}

// Waiting reports the requester's render queue length while another render
// holds the lock.
type Waiting struct {
	QueueLength int `json:"queue_length"`
}

func (Waiting) Kind() string { return "waiting" }

// RenderingImages reports per-card placement progress.
type RenderingImages struct {
	Rendered int `json:"rendered_cards"`
	Total    int `json:"total_cards"`
}

func (RenderingImages) Kind() string { return "rendering_images" }

// SavingPages reports per-page persistence progress.
type SavingPages struct {
	Saved int `json:"saved_pages"`
	Total int `json:"total_pages"`
}

func (SavingPages) Kind() string { return "saving_pages" }

// Rendered reports successful completion of a render.
type Rendered struct{}

func (Rendered) Kind() string { return "rendered" }

// RenderFailed reports the single user-facing failure of an aborted render.
type RenderFailed struct {
	Message string `json:"message"`
}

func (RenderFailed) Kind() string { return "render_failed" }

// Service delivers events to users.
type Service interface {
	Notify(ctx context.Context, user UserID, event Event) error
}

// NewNoop returns a service that discards every event.
func NewNoop() Service { return noopService{} }

type noopService struct{}

func (noopService) Notify(context.Context, UserID, Event) error { return nil }
