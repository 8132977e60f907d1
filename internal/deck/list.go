package deck

import (
	"ttsdeck/internal/scryfall"
)

// Line is one decklist row: a display name and how many copies the list asks
// for. Counts are per oracle identity; printing selection happens during
// expansion.
type Line struct {
	Name  string
	Count int
}

// List is the abstract decklist handed over by a loader. The pipeline does
// not know which site a deck came from; loaders produce this shape.
type List struct {
	Title      string
	Commanders map[scryfall.OracleID]string
	MainDeck   map[scryfall.OracleID]Line
	Sideboard  map[scryfall.OracleID]Line
}

// MainDeckCount returns the total number of physical main-deck cards.
func (l *List) MainDeckCount() int {
	total := 0
	for _, line := range l.MainDeck {
		total += line.Count
	}
	return total
}
