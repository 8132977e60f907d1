package scryfall

import (
	"context"
	"fmt"
)

// Printing is one concrete printed card plus the number of physical copies
// an expansion assigned to it.
type Printing struct {
	Card   *Card
	Copies int
}

// preference buckets keyed by (full art, funny set), best first. Full-art
// printings from regular sets win; un-set printings are the last resort.
var bucketOrder = [4]struct {
	fullArt bool
	funny   bool
}{
	{true, false},
	{false, false},
	{true, true},
	{false, true},
}

// ExpandOracleID resolves an oracle identity plus a desired copy count into
// concrete printings. All English printings are partitioned by
// (full_art, funny-set) and the first non-empty preference bucket becomes
// the options list; copies are distributed round-robin across it, so a card
// with a single printing maps every copy to that printing. The returned
// copy counts always sum to count exactly.
func (s *Store) ExpandOracleID(ctx context.Context, oracleID OracleID, count int) ([]Printing, error) {
	if count <= 0 {
		return nil, fmt.Errorf("expand oracle %s: count must be positive, got %d", oracleID, count)
	}

	printings, err := s.PrintingsByOracleID(ctx, oracleID, "en")
	if err != nil {
		return nil, err
	}

	buckets := make(map[[2]bool][]*Card, 4)
	for _, card := range printings {
		key := [2]bool{card.FullArt(), card.SetType() == "funny"}
		buckets[key] = append(buckets[key], card)
	}

	var options []*Card
	for _, pref := range bucketOrder {
		if cards := buckets[[2]bool{pref.fullArt, pref.funny}]; len(cards) > 0 {
			options = cards
			break
		}
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("no printings matching oracle id %s: %w", oracleID, ErrNotFound)
	}

	copies := make(map[PrintID]int, len(options))
	order := make([]*Card, 0, len(options))
	for i := 0; i < count; i++ {
		card := options[i%len(options)]
		if copies[card.ID()] == 0 {
			order = append(order, card)
		}
		copies[card.ID()]++
	}

	result := make([]Printing, 0, len(order))
	total := 0
	for _, card := range order {
		n := copies[card.ID()]
		result = append(result, Printing{Card: card, Copies: n})
		total += n
	}
	if total != count {
		return nil, fmt.Errorf("expand oracle %s: distributed %d copies, wanted %d", oracleID, total, count)
	}
	return result, nil
}
