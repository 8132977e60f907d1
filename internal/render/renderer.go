package render

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"ttsdeck/internal/deck"
	"ttsdeck/internal/fanin"
	"ttsdeck/internal/logging"
	"ttsdeck/internal/media"
	"ttsdeck/internal/notifications"
	"ttsdeck/internal/scryfall"
)

// pageJPEGQuality balances page file size against composite legibility.
const pageJPEGQuality = 85

// ImageSource provides card face images by print identity.
type ImageSource interface {
	CardImage(ctx context.Context, id scryfall.PrintID) (image.Image, error)
}

// PageRenderer packs card images into sprite-sheet pages.
type PageRenderer struct {
	images      ImageSource
	store       media.Store
	notifier    notifications.Service
	logger      *slog.Logger
	parallelism int
	back        image.Image
}

// NewPageRenderer creates a renderer fetching card images from images and
// persisting finished pages into store. parallelism bounds concurrent
// image work; values below one fall back to one.
func NewPageRenderer(images ImageSource, store media.Store, notifier notifications.Service, logger *slog.Logger, parallelism int) *PageRenderer {
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &PageRenderer{
		images:      images,
		store:       store,
		notifier:    notifier,
		logger:      logging.WithComponent(logger, "render"),
		parallelism: parallelism,
		back:        DefaultBackImage(),
	}
}

type cardImage struct {
	card *scryfall.Card
	img  image.Image
	err  error
}

// RenderPages fetches every card image across all piles, packs arrivals
// into pages in completion order, and persists each finalized page. Each
// unique printing occupies one cell; physical copies share it. A single
// failed image aborts the whole render.
func (r *PageRenderer) RenderPages(ctx context.Context, deckID deck.ID, userID notifications.UserID, piles []deck.Pile) ([]RenderedPage, error) {
	var units []func(context.Context) cardImage
	for _, pile := range piles {
		for _, entry := range pile.Cards {
			card := entry.Card
			units = append(units, func(ctx context.Context) cardImage {
				img, err := r.images.CardImage(ctx, card.ID())
				if err != nil {
					return cardImage{card: card, err: err}
				}
				return cardImage{card: card, img: fitCardSize(img)}
			})
		}
	}
	total := len(units)
	if total == 0 {
		return nil, fmt.Errorf("deck %s has no cards to render", deckID)
	}

	r.notify(ctx, userID, notifications.RenderingImages{Rendered: 0, Total: total})

	stream := fanin.New(ctx, r.parallelism, units)
	defer stream.Close()

	var pages []*Page
	current := NewPage(total, r.back)
	placed := 0
	for result := range stream.C() {
		if result.err != nil {
			return nil, fmt.Errorf("load image for card %q (%s): %w",
				result.card.CombinedName(), result.card.ID(), result.err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if current.Full() {
			pages = append(pages, current)
			current = NewPage(total-placed-1, r.back)
		}
		slot := current.Place(result.card.ID(), result.img)
		placed++
		r.logger.Debug("placed card",
			logging.Args(
				logging.String("card", result.card.CombinedName()),
				logging.Int("page", len(pages)),
				logging.Int("slot", slot),
			)...)
		r.notify(ctx, userID, notifications.RenderingImages{Rendered: placed, Total: total})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if current.Placed() > 0 {
		pages = append(pages, current)
	}

	return r.savePages(ctx, deckID, userID, pages)
}

// savePages persists page rasters to the media store, replacing each
// buffer with a stable file reference.
func (r *PageRenderer) savePages(ctx context.Context, deckID deck.ID, userID notifications.UserID, pages []*Page) ([]RenderedPage, error) {
	total := len(pages)
	r.notify(ctx, userID, notifications.SavingPages{Saved: 0, Total: total})

	rendered := make([]RenderedPage, 0, total)
	for i, page := range pages {
		ref, err := r.savePage(deckID, i, page)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("saved page",
			logging.Args(logging.String("key", ref.Key))...)
		rendered = append(rendered, RenderedPage{
			Width:   page.width,
			Height:  page.height,
			File:    ref,
			Mapping: page.mapping,
		})
		r.notify(ctx, userID, notifications.SavingPages{Saved: i + 1, Total: total})
	}
	return rendered, nil
}

func (r *PageRenderer) savePage(deckID deck.ID, index int, page *Page) (media.Ref, error) {
	key := PageKey(deckID, index)
	upload, err := r.store.Create(key)
	if err != nil {
		return media.Ref{}, fmt.Errorf("page %d of deck %s: %w", index, deckID, err)
	}
	defer upload.Abort()

	if err := jpeg.Encode(upload, page.Image(), &jpeg.Options{Quality: pageJPEGQuality}); err != nil {
		return media.Ref{}, fmt.Errorf("encode page %d of deck %s: %w", index, deckID, err)
	}
	ref, err := upload.Finalize()
	if err != nil {
		return media.Ref{}, fmt.Errorf("page %d of deck %s: %w", index, deckID, err)
	}
	return ref, nil
}

// PageKey returns the media store key for one page image, sharded by the
// first two byte pairs of the deck id.
func PageKey(deckID deck.ID, index int) string {
	id := deckID.String()
	return fmt.Sprintf("pages/%s/%s/%s_%d.jpg", id[0:2], id[2:4], id, index)
}

func (r *PageRenderer) notify(ctx context.Context, userID notifications.UserID, event notifications.Event) {
	if err := r.notifier.Notify(ctx, userID, event); err != nil {
		r.logger.Warn("progress notification failed",
			logging.Args(logging.String("event", event.Kind()), logging.Error(err))...)
	}
}
