package deck_test

import (
	"context"
	"errors"
	"testing"

	"ttsdeck/internal/deck"
	"ttsdeck/internal/logging"
	"ttsdeck/internal/scryfall"
	"ttsdeck/internal/testsupport"
)

func newAssembler(store *scryfall.Store) *deck.Assembler {
	return deck.NewAssembler(store, logging.NewNop())
}

func listOf(title string, cards ...*scryfall.Card) *deck.List {
	list := &deck.List{
		Title:      title,
		Commanders: make(map[scryfall.OracleID]string),
		MainDeck:   make(map[scryfall.OracleID]deck.Line),
		Sideboard:  make(map[scryfall.OracleID]deck.Line),
	}
	for _, card := range cards {
		line := list.MainDeck[card.OracleID()]
		list.MainDeck[card.OracleID()] = deck.Line{
			Name:  card.CombinedName(),
			Count: line.Count + 1,
		}
	}
	return list
}

func pileByName(t *testing.T, piles []deck.Pile, name string) deck.Pile {
	t.Helper()
	for _, pile := range piles {
		if pile.Name == name {
			return pile
		}
	}
	t.Fatalf("no pile named %q in %d piles", name, len(piles))
	return deck.Pile{}
}

func TestAssembleSortsCardsByName(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	c := testsupport.MustSaveCard(t, store, testsupport.CardSpec{Name: "Counterspell"})
	a := testsupport.MustSaveCard(t, store, testsupport.CardSpec{Name: "Ancestral Recall"})
	b := testsupport.MustSaveCard(t, store, testsupport.CardSpec{Name: "Brainstorm"})

	piles, err := newAssembler(store).Assemble(context.Background(), listOf("sorted", c, a, b))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	main := pileByName(t, piles, deck.PileMainDeck)
	if main.FaceUp {
		t.Errorf("main deck should be face down")
	}
	want := []string{"Ancestral Recall", "Brainstorm", "Counterspell"}
	for i, name := range want {
		if got := main.Cards[i].Card.CombinedName(); got != name {
			t.Errorf("card %d = %q, want %q", i, got, name)
		}
	}
}

func TestAssembleEmptyMainDeckFails(t *testing.T) {
	store := testsupport.MustOpenStore(t)

	_, err := newAssembler(store).Assemble(context.Background(), listOf("empty"))
	if !errors.Is(err, deck.ErrEmptyDeck) {
		t.Fatalf("expected ErrEmptyDeck, got %v", err)
	}
}

// commanderDeck builds a 100-card commander-legal list: one copy of the
// given candidate plus 99 Forests.
func commanderDeck(t *testing.T, store *scryfall.Store, candidate *scryfall.Card) *deck.List {
	t.Helper()
	forest := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:          "Forest",
		TypeLine:      "Basic Land — Forest",
		ColorIdentity: []string{"G"},
	})
	list := listOf("commander deck", candidate)
	list.MainDeck[forest.OracleID()] = deck.Line{Name: "Forest", Count: 99}
	return list
}

func TestCommanderDetection(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	general := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:          "Marwyn, the Nurturer",
		TypeLine:      "Legendary Creature — Elf Druid",
		ColorIdentity: []string{"G"},
	})
	list := commanderDeck(t, store, general)

	piles, err := newAssembler(store).Assemble(context.Background(), list)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(piles) != 2 {
		t.Fatalf("expected commander and main piles, got %d", len(piles))
	}

	commanders := pileByName(t, piles, deck.PileCommanders)
	if !commanders.FaceUp {
		t.Errorf("commander pile should be face up")
	}
	if len(commanders.Cards) != 1 || commanders.Cards[0].Card.OracleID() != general.OracleID() {
		t.Errorf("commander pile = %+v", commanders.Cards)
	}

	main := pileByName(t, piles, deck.PileMainDeck)
	total := 0
	for _, entry := range main.Cards {
		total += entry.Copies
	}
	if total != 99 {
		t.Errorf("main deck holds %d cards, want 99", total)
	}
}

func TestCommanderDetectionByGrantText(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	general := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:          "Grist, the Hunger Tide",
		TypeLine:      "Legendary Planeswalker — Grist",
		OracleText:    "Grist, the Hunger Tide can be your commander.",
		ColorIdentity: []string{"G"},
	})
	list := commanderDeck(t, store, general)

	piles, err := newAssembler(store).Assemble(context.Background(), list)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	commanders := pileByName(t, piles, deck.PileCommanders)
	if len(commanders.Cards) != 1 {
		t.Fatalf("commander pile = %+v", commanders.Cards)
	}
}

func TestCommanderDetectionRequiresExactColorIdentity(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	// Colorless legend inside a green deck: its identity is a subset of
	// the deck's, not equal, so it must stay in the main pile.
	general := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:          "Karn, Silver Golem",
		TypeLine:      "Legendary Creature — Golem",
		ColorIdentity: []string{},
	})
	list := commanderDeck(t, store, general)

	piles, err := newAssembler(store).Assemble(context.Background(), list)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(piles) != 1 {
		t.Fatalf("expected only the main pile, got %d piles", len(piles))
	}
}

func TestCommanderDetectionRequiresExactly100Cards(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	general := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:          "Marwyn, the Nurturer",
		TypeLine:      "Legendary Creature — Elf Druid",
		ColorIdentity: []string{"G"},
	})
	list := commanderDeck(t, store, general)
	forestOracle := func() scryfall.OracleID {
		for oracleID, line := range list.MainDeck {
			if line.Name == "Forest" {
				return oracleID
			}
		}
		t.Fatal("forest line missing")
		return scryfall.OracleID{}
	}()
	list.MainDeck[forestOracle] = deck.Line{Name: "Forest", Count: 59}

	piles, err := newAssembler(store).Assemble(context.Background(), list)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(piles) != 1 {
		t.Fatalf("60-card deck should not trigger detection, got %d piles", len(piles))
	}
}

func TestCommanderDetectionSkipsSeparatedLists(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	chosen := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:          "Tuvasa the Sunlit",
		TypeLine:      "Legendary Creature — Merfolk Shaman",
		ColorIdentity: []string{"G", "W", "U"},
	})
	lurking := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:          "Marwyn, the Nurturer",
		TypeLine:      "Legendary Creature — Elf Druid",
		ColorIdentity: []string{"G"},
	})

	list := commanderDeck(t, store, lurking)
	list.Commanders[chosen.OracleID()] = "Tuvasa the Sunlit"

	piles, err := newAssembler(store).Assemble(context.Background(), list)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	commanders := pileByName(t, piles, deck.PileCommanders)
	if len(commanders.Cards) != 1 || commanders.Cards[0].Card.OracleID() != chosen.OracleID() {
		t.Errorf("pre-separated commander must survive untouched, got %+v", commanders.Cards)
	}
}

func TestTokenDiscovery(t *testing.T) {
	store := testsupport.MustOpenStore(t)

	token := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:     "Elf Warrior",
		TypeLine: "Token Creature — Elf Warrior",
	})
	combo := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name: "Some Combo Piece",
	})
	source := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name: "Elvish Promenade",
		AllParts: []testsupport.RelatedPart{
			{ID: token.ID().String(), Component: "token", Name: "Elf Warrior"},
			{ID: combo.ID().String(), Component: "combo_piece", Name: "Some Combo Piece"},
		},
	})

	piles, err := newAssembler(store).Assemble(context.Background(), listOf("tokens", source))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	tokens := pileByName(t, piles, deck.PileTokens)
	if len(tokens.Cards) != 1 {
		t.Fatalf("token pile = %+v", tokens.Cards)
	}
	if tokens.Cards[0].Card.OracleID() != token.OracleID() || tokens.Cards[0].Copies != 1 {
		t.Errorf("token entry = %+v", tokens.Cards[0])
	}
}

func TestTokenDiscoveryTerminatesOnCycles(t *testing.T) {
	store := testsupport.MustOpenStore(t)

	resultSpec := testsupport.CardSpec{
		Name:     "Brisela, Voice of Nightmares",
		TypeLine: "Legendary Creature — Eldrazi Angel",
	}
	result := testsupport.MustSaveCard(t, store, resultSpec)

	half := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name:     "Bruna, the Fading Light",
		TypeLine: "Legendary Creature — Angel Horror",
		AllParts: []testsupport.RelatedPart{
			{ID: result.ID().String(), Component: "meld_result", Name: resultSpec.Name},
		},
	})

	// Rewrite the result so it has a followable edge back to the half.
	// The traversal must not loop between the two.
	testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		ID:       result.ID().String(),
		OracleID: result.OracleID().String(),
		Name:     resultSpec.Name,
		TypeLine: resultSpec.TypeLine,
		AllParts: []testsupport.RelatedPart{
			{ID: half.ID().String(), Component: "meld_result", Name: "Bruna, the Fading Light"},
		},
	})

	piles, err := newAssembler(store).Assemble(context.Background(), listOf("meld", half))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	tokens := pileByName(t, piles, deck.PileTokens)
	if len(tokens.Cards) != 1 || tokens.Cards[0].Card.OracleID() != result.OracleID() {
		t.Errorf("token pile = %+v", tokens.Cards)
	}
}

func TestTokenDiscoveryMissingRelatedCardIsFatal(t *testing.T) {
	store := testsupport.MustOpenStore(t)
	source := testsupport.MustSaveCard(t, store, testsupport.CardSpec{
		Name: "Elvish Promenade",
		AllParts: []testsupport.RelatedPart{
			{ID: "00000000-0000-0000-0000-000000000001", Component: "token", Name: "Missing Token"},
		},
	})

	_, err := newAssembler(store).Assemble(context.Background(), listOf("broken", source))
	if !errors.Is(err, scryfall.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
