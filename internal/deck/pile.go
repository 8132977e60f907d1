package deck

import (
	"errors"
	"fmt"
	"sort"

	"ttsdeck/internal/scryfall"
)

// ErrEmptyDeck marks decks whose main pile has no cards.
var ErrEmptyDeck = errors.New("empty deck")

// Pile names, in the order piles appear in the rendered scene.
const (
	PileCommanders = "commanders"
	PileMainDeck   = "main deck"
	PileSideboard  = "sideboard"
	PileTokens     = "tokens"
)

// Entry is one card plus the number of physical copies of it in a pile.
type Entry struct {
	Card   *scryfall.Card
	Copies int
}

// Pile is a named, ordered group of cards sharing a face orientation.
// A pile is never empty: candidate piles without cards are omitted.
type Pile struct {
	Name   string
	Cards  []Entry
	FaceUp bool
}

func newPile(name string, cards []Entry, faceUp bool) (Pile, error) {
	if len(cards) == 0 {
		return Pile{}, fmt.Errorf("cannot make pile %q of zero cards", name)
	}
	sortEntries(cards)
	return Pile{Name: name, Cards: cards, FaceUp: faceUp}, nil
}

// Size returns the number of physical cards in the pile.
func (p Pile) Size() int {
	total := 0
	for _, entry := range p.Cards {
		total += entry.Copies
	}
	return total
}

// sortEntries orders cards by display name so assembly output is stable
// across runs given identical input data.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Card.CombinedName() < entries[j].Card.CombinedName()
	})
}
