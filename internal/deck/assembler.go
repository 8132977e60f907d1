package deck

import (
	"context"
	"fmt"
	"log/slog"

	"ttsdeck/internal/logging"
	"ttsdeck/internal/scryfall"
)

// CardDatabase is the card lookup surface assembly needs.
type CardDatabase interface {
	CardByID(ctx context.Context, id scryfall.PrintID) (*scryfall.Card, error)
	PrintingsByOracleID(ctx context.Context, oracleID scryfall.OracleID, lang string) ([]*scryfall.Card, error)
	ExpandOracleID(ctx context.Context, oracleID scryfall.OracleID, count int) ([]scryfall.Printing, error)
	CheckLegal(ctx context.Context, oracleID scryfall.OracleID, format string) (bool, error)
	ColorIdentityUnion(ctx context.Context, oracleIDs []scryfall.OracleID) (map[string]struct{}, error)
}

// Assembler builds render-ready piles from abstract decklists.
type Assembler struct {
	db     CardDatabase
	logger *slog.Logger
}

// NewAssembler creates an assembler backed by the given card database.
func NewAssembler(db CardDatabase, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{db: db, logger: logging.WithComponent(logger, "deck")}
}

// Assemble expands the list into concrete piles: commanders (face up), main
// deck (face down), sideboard (face up), and discovered tokens (face up).
// Empty candidate piles are omitted; an empty main deck is fatal.
func (a *Assembler) Assemble(ctx context.Context, list *List) ([]Pile, error) {
	if list.Commanders == nil {
		list.Commanders = make(map[scryfall.OracleID]string)
	}

	if err := detectCommanders(ctx, a.db, a.logger, list); err != nil {
		return nil, fmt.Errorf("extract commanders: %w", err)
	}

	commanders, err := a.expandCommanders(ctx, list.Commanders)
	if err != nil {
		return nil, err
	}
	mainDeck, err := a.expandLines(ctx, "main deck", list.MainDeck)
	if err != nil {
		return nil, err
	}
	if len(mainDeck) == 0 {
		return nil, fmt.Errorf("deck %q has no main-deck cards: %w", list.Title, ErrEmptyDeck)
	}
	sideboard, err := a.expandLines(ctx, "sideboard", list.Sideboard)
	if err != nil {
		return nil, err
	}

	seeds := make([]*scryfall.Card, 0, len(mainDeck)+len(sideboard))
	for _, entry := range mainDeck {
		seeds = append(seeds, entry.Card)
	}
	for _, entry := range sideboard {
		seeds = append(seeds, entry.Card)
	}
	tokens, err := discoverTokens(ctx, a.db, a.logger, seeds)
	if err != nil {
		return nil, fmt.Errorf("discover tokens for deck %q: %w", list.Title, err)
	}

	piles := make([]Pile, 0, 4)
	if len(commanders) > 0 {
		pile, err := newPile(PileCommanders, commanders, true)
		if err != nil {
			return nil, err
		}
		piles = append(piles, pile)
	}
	mainPile, err := newPile(PileMainDeck, mainDeck, false)
	if err != nil {
		return nil, err
	}
	piles = append(piles, mainPile)
	if len(sideboard) > 0 {
		pile, err := newPile(PileSideboard, sideboard, true)
		if err != nil {
			return nil, err
		}
		piles = append(piles, pile)
	}
	if len(tokens) > 0 {
		pile, err := newPile(PileTokens, tokens, true)
		if err != nil {
			return nil, err
		}
		piles = append(piles, pile)
	}

	a.logger.Info("assembled deck",
		logging.Args(
			logging.String("deck", list.Title),
			logging.Int("piles", len(piles)),
			logging.Int("tokens", len(tokens)),
		)...)
	return piles, nil
}

func (a *Assembler) expandCommanders(ctx context.Context, commanders map[scryfall.OracleID]string) ([]Entry, error) {
	entries := make([]Entry, 0, len(commanders))
	for oracleID, name := range commanders {
		printings, err := a.db.ExpandOracleID(ctx, oracleID, 1)
		if err != nil {
			return nil, fmt.Errorf("expand commander %q: %w", name, err)
		}
		for _, printing := range printings {
			entries = append(entries, Entry{Card: printing.Card, Copies: printing.Copies})
		}
	}
	return entries, nil
}

func (a *Assembler) expandLines(ctx context.Context, label string, lines map[scryfall.OracleID]Line) ([]Entry, error) {
	entries := make([]Entry, 0, len(lines))
	for oracleID, line := range lines {
		printings, err := a.db.ExpandOracleID(ctx, oracleID, line.Count)
		if err != nil {
			return nil, fmt.Errorf("expand %s card %q: %w", label, line.Name, err)
		}
		for _, printing := range printings {
			entries = append(entries, Entry{Card: printing.Card, Copies: printing.Copies})
		}
	}
	return entries, nil
}
