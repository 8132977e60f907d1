package deck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ttsdeck/internal/logging"
	"ttsdeck/internal/scryfall"
)

// typeLineSeparator splits the card types from the subtypes.
const typeLineSeparator = "—"

// detectCommanders moves commander candidates out of the main deck. It only
// fires for lists the loader did not already separate: the main deck must
// total exactly 100 cards and every card must be legal in the commander
// format. Zero candidates leaves the deck untouched; that is not an error.
func detectCommanders(ctx context.Context, db CardDatabase, logger *slog.Logger, list *List) error {
	if len(list.Commanders) > 0 {
		// The loader already separated commanders; never re-scan.
		return nil
	}
	if list.MainDeckCount() != 100 {
		return nil
	}

	oracleIDs := make([]scryfall.OracleID, 0, len(list.MainDeck))
	for oracleID := range list.MainDeck {
		oracleIDs = append(oracleIDs, oracleID)
	}
	for _, oracleID := range oracleIDs {
		legal, err := db.CheckLegal(ctx, oracleID, "commander")
		if err != nil {
			return fmt.Errorf("check commander legality for %s: %w", oracleID, err)
		}
		if !legal {
			logger.Debug("card disqualified deck from commander format",
				logging.Args(logging.String("oracle_id", oracleID.String()))...)
			return nil
		}
	}

	deckColors, err := db.ColorIdentityUnion(ctx, oracleIDs)
	if err != nil {
		return fmt.Errorf("compute deck color identity: %w", err)
	}

	commanders := make(map[scryfall.OracleID]string)
	for oracleID, line := range list.MainDeck {
		if line.Count != 1 {
			continue
		}
		candidate, err := isCommanderCandidate(ctx, db, oracleID, deckColors)
		if err != nil {
			return fmt.Errorf("check commander candidacy for %s: %w", oracleID, err)
		}
		if candidate {
			logger.Info("found commander",
				logging.Args(
					logging.String("name", line.Name),
					logging.String("oracle_id", oracleID.String()),
				)...)
			commanders[oracleID] = line.Name
		}
	}

	for oracleID, name := range commanders {
		delete(list.MainDeck, oracleID)
		list.Commanders[oracleID] = name
	}
	return nil
}

// isCommanderCandidate reports whether any printing of the oracle identity
// qualifies as a commander for a deck with the given aggregate color
// identity.
func isCommanderCandidate(ctx context.Context, db CardDatabase, oracleID scryfall.OracleID, deckColors map[string]struct{}) (bool, error) {
	printings, err := db.PrintingsByOracleID(ctx, oracleID, "en")
	if err != nil {
		return false, err
	}
	for _, card := range printings {
		if !colorsEqual(card.ColorIdentity(), deckColors) {
			continue
		}
		if isLegendaryCreature(card.TypeLine()) || grantsCommanderText(card) {
			return true, nil
		}
	}
	return false, nil
}

// isLegendaryCreature checks for both "Legendary" and "Creature" as
// whitespace-separated tokens before the em-dash in the type line.
func isLegendaryCreature(typeLine string) bool {
	types, _, _ := strings.Cut(typeLine, typeLineSeparator)
	legendary, creature := false, false
	for _, token := range strings.Fields(types) {
		switch token {
		case "Legendary":
			legendary = true
		case "Creature":
			creature = true
		}
	}
	return legendary && creature
}

// grantsCommanderText matches non-creature commanders whose rules text
// explicitly says "<name> can be your commander".
func grantsCommanderText(card *scryfall.Card) bool {
	text := card.OracleText()
	for _, name := range card.Names() {
		if strings.Contains(text, name+" can be your commander") {
			return true
		}
	}
	return false
}

// colorsEqual reports set equality between a card's color identity and the
// deck's; a commander must match exactly, not merely contain it.
func colorsEqual(cardColors []string, deckColors map[string]struct{}) bool {
	if len(cardColors) != len(deckColors) {
		return false
	}
	for _, color := range cardColors {
		if _, ok := deckColors[color]; !ok {
			return false
		}
	}
	return true
}
