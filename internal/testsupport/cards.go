// Package testsupport provides shared helpers for package tests: a temp
// card store, card JSON fixtures, and a recording notification service.
package testsupport

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"ttsdeck/internal/scryfall"
)

// RelatedPart is a fixture entry for a card's all_parts list.
type RelatedPart struct {
	ID        string `json:"id"`
	Component string `json:"component"`
	Name      string `json:"name"`
}

// CardSpec describes one card printing fixture. Zero-value fields get
// sensible defaults so tests only state what they care about.
type CardSpec struct {
	ID              string
	OracleID        string
	Name            string
	Lang            string
	ReleasedAt      string
	CollectorNumber string
	SetType         string
	FullArt         bool
	ManaCost        string
	TypeLine        string
	OracleText      string
	ColorIdentity   []string
	Legalities      map[string]string
	AllParts        []RelatedPart
}

// CardJSON renders the fixture as Scryfall-shaped card JSON.
func CardJSON(t testing.TB, spec CardSpec) []byte {
	t.Helper()

	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	if spec.OracleID == "" {
		spec.OracleID = uuid.NewString()
	}
	if spec.Name == "" {
		spec.Name = "Test Card"
	}
	if spec.Lang == "" {
		spec.Lang = "en"
	}
	if spec.ReleasedAt == "" {
		spec.ReleasedAt = "2020-01-01"
	}
	if spec.CollectorNumber == "" {
		spec.CollectorNumber = "1"
	}
	if spec.SetType == "" {
		spec.SetType = "expansion"
	}
	if spec.TypeLine == "" {
		spec.TypeLine = "Instant"
	}
	if spec.ColorIdentity == nil {
		spec.ColorIdentity = []string{}
	}
	if spec.Legalities == nil {
		spec.Legalities = map[string]string{"commander": "legal"}
	}

	raw, err := json.Marshal(map[string]any{
		"id":               spec.ID,
		"oracle_id":        spec.OracleID,
		"name":             spec.Name,
		"lang":             spec.Lang,
		"released_at":      spec.ReleasedAt,
		"collector_number": spec.CollectorNumber,
		"set_type":         spec.SetType,
		"full_art":         spec.FullArt,
		"mana_cost":        spec.ManaCost,
		"type_line":        spec.TypeLine,
		"oracle_text":      spec.OracleText,
		"color_identity":   spec.ColorIdentity,
		"legalities":       spec.Legalities,
		"all_parts":        spec.AllParts,
	})
	if err != nil {
		t.Fatalf("marshal card fixture: %v", err)
	}
	return raw
}

// MustSaveCard stores the fixture and returns the parsed card.
func MustSaveCard(t testing.TB, store *scryfall.Store, spec CardSpec) *scryfall.Card {
	t.Helper()

	card, err := store.SaveCardJSON(context.Background(), CardJSON(t, spec))
	if err != nil {
		t.Fatalf("SaveCardJSON: %v", err)
	}
	return card
}
