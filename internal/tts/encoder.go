package tts

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"ttsdeck/internal/deck"
	"ttsdeck/internal/render"
	"ttsdeck/internal/scryfall"
)

// ErrCardNotPlaced indicates a pile card that appears on no rendered page.
var ErrCardNotPlaced = errors.New("card not placed on any page")

// Encoder builds Tabletop Simulator documents from piles and their
// rendered pages.
type Encoder struct {
	backURL string
	now     func() time.Time
}

// NewEncoder creates an encoder. backURL is the card-back image every
// page references.
func NewEncoder(backURL string) *Encoder {
	return &Encoder{backURL: backURL, now: time.Now}
}

// placedCard is one physical copy tagged with its deck id.
type placedCard struct {
	card   *scryfall.Card
	deckID int
}

// linearPile is a pile expanded to one entry per physical copy.
type linearPile struct {
	cards  []placedCard
	faceUp bool
}

// Encode produces the saved-object document for a deck. Every card in
// every pile must appear in some page's slot mapping.
func (e *Encoder) Encode(title string, piles []deck.Pile, pages []render.RenderedPage) (*Document, error) {
	deckIDs := make(map[scryfall.PrintID]int)
	for pageIndex, page := range pages {
		for id, slot := range page.Mapping {
			deckIDs[id] = render.EncodeDeckID(pageIndex, slot)
		}
	}

	pageRefs := make([]PageRef, len(pages))
	for i, page := range pages {
		pageRefs[i] = PageRef{
			FaceURL:   page.File.URL(),
			BackURL:   e.backURL,
			NumHeight: page.Height,
			NumWidth:  page.Width,
		}
	}

	stacks := make([]Stack, 0, len(piles))
	for i, pile := range piles {
		linear, err := linearize(pile, deckIDs)
		if err != nil {
			return nil, fmt.Errorf("pile %q: %w", pile.Name, err)
		}
		stacks = append(stacks, e.encodePile(title, linear, i, pageRefs))
	}
	return &Document{ObjectStates: stacks}, nil
}

func linearize(pile deck.Pile, deckIDs map[scryfall.PrintID]int) (linearPile, error) {
	linear := linearPile{faceUp: pile.FaceUp}
	for _, entry := range pile.Cards {
		deckID, ok := deckIDs[entry.Card.ID()]
		if !ok {
			return linearPile{}, fmt.Errorf("%q (%s): %w",
				entry.Card.CombinedName(), entry.Card.ID(), ErrCardNotPlaced)
		}
		for c := 0; c < entry.Copies; c++ {
			linear.cards = append(linear.cards, placedCard{card: entry.Card, deckID: deckID})
		}
	}
	return linear, nil
}

func (e *Encoder) encodePile(title string, pile linearPile, pileIndex int, pageRefs []PageRef) Stack {
	transform := baseTransform()
	transform.PosX = 3.0 * float64(pileIndex)
	if !pile.faceUp {
		transform.RotZ = 180.0
	}

	stack := Stack{
		ColorDiffuse: white(),
		CustomDeck:   usedPages(pile, pageRefs),
		Grid:         true,
		Locked:       false,
		Snap:         true,
		Transform:    transform,
	}

	if len(pile.cards) == 1 {
		only := pile.cards[0]
		stack.Name = "Card"
		stack.Nickname = only.card.CombinedName()
		stack.Description = only.card.Description()
		stack.CardID = only.deckID
		return stack
	}

	stack.Name = "Deck"
	stack.Nickname = title
	stack.Description = fmt.Sprintf("Generated at %s", e.now().UTC().Format(time.RFC1123Z))
	stack.DeckIDs = make([]int, 0, len(pile.cards))
	stack.ContainedObjects = make([]CardObject, 0, len(pile.cards))
	for _, placed := range pile.cards {
		stack.DeckIDs = append(stack.DeckIDs, placed.deckID)
		stack.ContainedObjects = append(stack.ContainedObjects, CardObject{
			Name:         "Card",
			CardID:       placed.deckID,
			ColorDiffuse: white(),
			CustomDeck:   stack.CustomDeck,
			Transform:    baseTransform(),
			Nickname:     placed.card.Names()[0],
			Description:  placed.card.Description(),
		})
	}
	return stack
}

// usedPages returns the CustomDeck map holding only the pages the pile's
// deck ids actually reference, keyed by 1-based page number.
func usedPages(pile linearPile, pageRefs []PageRef) map[string]PageRef {
	used := make(map[string]PageRef)
	for _, placed := range pile.cards {
		pageNumber := placed.deckID / 100
		used[strconv.Itoa(pageNumber)] = pageRefs[pageNumber-1]
	}
	return used
}
