package deck

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"ttsdeck/internal/logging"
	"ttsdeck/internal/scryfall"
)

// discoverTokens walks the related-parts graph breadth-first from the given
// seed cards and returns every reachable token and meld-result card, one
// copy each, sorted by display name. combo_piece and meld_part edges are
// never followed. The graph may contain cycles; a seen-set on print
// identity guarantees termination.
func discoverTokens(ctx context.Context, db CardDatabase, logger *slog.Logger, seeds []*scryfall.Card) ([]Entry, error) {
	queue := make([]*scryfall.Card, len(seeds))
	copy(queue, seeds)

	seen := make(map[scryfall.PrintID]struct{}, len(queue))
	found := make(map[scryfall.OracleID]*scryfall.Card)

	for len(queue) > 0 {
		card := queue[0]
		queue = queue[1:]

		if _, ok := seen[card.ID()]; ok {
			continue
		}
		seen[card.ID()] = struct{}{}

		for _, part := range card.RelatedParts() {
			switch part.Kind {
			case scryfall.RelationToken, scryfall.RelationMeldResult:
			case scryfall.RelationComboPiece, scryfall.RelationMeldPart:
				logger.Debug("skipping related part",
					logging.Args(
						logging.String("kind", string(part.Kind)),
						logging.String("part", part.Name),
						logging.String("card", card.CombinedName()),
					)...)
				continue
			default:
				logger.Warn("unexpected related part kind",
					logging.Args(
						logging.String("kind", string(part.Kind)),
						logging.String("part", part.Name),
						logging.String("card", card.CombinedName()),
					)...)
				continue
			}

			if _, ok := seen[part.ID]; ok {
				continue
			}
			partCard, err := db.CardByID(ctx, part.ID)
			if err != nil {
				return nil, fmt.Errorf("related card %s for %s: %w", part.ID, card.CombinedName(), err)
			}
			queue = append(queue, partCard)
			// First oracle occurrence wins so reprints of the same token
			// collapse into one entry.
			if _, ok := found[partCard.OracleID()]; !ok {
				found[partCard.OracleID()] = partCard
			}
		}
	}

	tokens := make([]Entry, 0, len(found))
	for _, card := range found {
		tokens = append(tokens, Entry{Card: card, Copies: 1})
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Card.CombinedName() < tokens[j].Card.CombinedName()
	})
	return tokens, nil
}
