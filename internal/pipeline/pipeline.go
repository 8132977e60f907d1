// Package pipeline drives a full deck render: pile assembly, admission,
// page rendering, and document encoding, with user-facing progress and
// failure notifications.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"ttsdeck/internal/deck"
	"ttsdeck/internal/logging"
	"ttsdeck/internal/notifications"
	"ttsdeck/internal/render"
	"ttsdeck/internal/tts"
)

// RenderedDeck is the final product of one render.
type RenderedDeck struct {
	JSON       []byte
	RenderedAt time.Time
	Pages      []render.RenderedPage
}

// Pipeline owns the collaborators a render needs. Construct once and
// share across requests; the coordinator serializes the expensive part.
type Pipeline struct {
	assembler   *deck.Assembler
	coordinator *render.Coordinator
	renderer    *render.PageRenderer
	encoder     *tts.Encoder
	notifier    notifications.Service
	logger      *slog.Logger
}

func New(assembler *deck.Assembler, coordinator *render.Coordinator, renderer *render.PageRenderer, encoder *tts.Encoder, notifier notifications.Service, logger *slog.Logger) *Pipeline {
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		assembler:   assembler,
		coordinator: coordinator,
		renderer:    renderer,
		encoder:     encoder,
		notifier:    notifier,
		logger:      logging.WithComponent(logger, "pipeline"),
	}
}

// RenderDeck runs the full render for one deck list. On any failure the
// user receives a single RenderFailed notification and no partial output
// is produced. The admission guard is released on every path.
func (p *Pipeline) RenderDeck(ctx context.Context, deckID deck.ID, userID notifications.UserID, list *deck.List) (*RenderedDeck, error) {
	rendered, err := p.renderDeck(ctx, deckID, userID, list)
	if err != nil {
		p.notify(ctx, userID, notifications.RenderFailed{Message: err.Error()})
		return nil, err
	}
	p.notify(ctx, userID, notifications.Rendered{})
	return rendered, nil
}

func (p *Pipeline) renderDeck(ctx context.Context, deckID deck.ID, userID notifications.UserID, list *deck.List) (*RenderedDeck, error) {
	p.logger.Info("rendering deck",
		logging.Args(
			logging.String("deck_id", deckID.String()),
			logging.String("title", list.Title),
		)...)

	piles, err := p.assembler.Assemble(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("assemble deck %s: %w", deckID, err)
	}

	guard, err := p.coordinator.Acquire(ctx, deckID, userID)
	if err != nil {
		return nil, fmt.Errorf("acquire render lock for deck %s: %w", deckID, err)
	}
	defer guard.Release()

	pages, err := p.renderer.RenderPages(ctx, deckID, userID, piles)
	if err != nil {
		return nil, fmt.Errorf("render pages for deck %s: %w", deckID, err)
	}

	doc, err := p.encoder.Encode(list.Title, piles, pages)
	if err != nil {
		return nil, fmt.Errorf("encode deck %s: %w", deckID, err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal deck %s: %w", deckID, err)
	}

	p.logger.Info("deck rendered",
		logging.Args(
			logging.String("deck_id", deckID.String()),
			logging.Int("pages", len(pages)),
		)...)
	return &RenderedDeck{JSON: data, RenderedAt: time.Now().UTC(), Pages: pages}, nil
}

func (p *Pipeline) notify(ctx context.Context, userID notifications.UserID, event notifications.Event) {
	if err := p.notifier.Notify(ctx, userID, event); err != nil {
		p.logger.Warn("notification failed",
			logging.Args(logging.String("event", event.Kind()), logging.Error(err))...)
	}
}
