package scryfall

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RelationKind classifies a related-parts edge on a card.
type RelationKind string

const (
	RelationToken      RelationKind = "token"
	RelationMeldResult RelationKind = "meld_result"
	RelationMeldPart   RelationKind = "meld_part"
	RelationComboPiece RelationKind = "combo_piece"
)

// RelatedPart is one entry of a card's related-parts list.
type RelatedPart struct {
	ID   PrintID
	Kind RelationKind
	Name string
}

// cardData is the subset of the Scryfall card JSON the pipeline reads.
type cardData struct {
	ID              string            `json:"id"`
	OracleID        string            `json:"oracle_id"`
	Name            string            `json:"name"`
	Lang            string            `json:"lang"`
	ReleasedAt      string            `json:"released_at"`
	CollectorNumber string            `json:"collector_number"`
	SetType         string            `json:"set_type"`
	FullArt         bool              `json:"full_art"`
	ManaCost        string            `json:"mana_cost"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text"`
	ColorIdentity   []string          `json:"color_identity"`
	Legalities      map[string]string `json:"legalities"`
	AllParts        []struct {
		ID        string `json:"id"`
		Component string `json:"component"`
		Name      string `json:"name"`
	} `json:"all_parts"`
	CardFaces []struct {
		Name       string `json:"name"`
		ManaCost   string `json:"mana_cost"`
		TypeLine   string `json:"type_line"`
		OracleText string `json:"oracle_text"`
	} `json:"card_faces"`
}

// Card is an immutable card value: one printing plus its raw attributes.
// Cards are created by the store on lookup or import and never mutated.
type Card struct {
	id        PrintID
	oracleID  OracleID
	data      cardData
	raw       json.RawMessage
	updatedAt time.Time
}

// NewCard parses a raw Scryfall card JSON document into a Card.
func NewCard(raw []byte, updatedAt time.Time) (*Card, error) {
	var data cardData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse card json: %w", err)
	}
	id, err := ParsePrintID(data.ID)
	if err != nil {
		return nil, fmt.Errorf("card json: %w", err)
	}
	oracleID, err := ParseOracleID(data.OracleID)
	if err != nil {
		return nil, fmt.Errorf("card json for print %s: %w", data.ID, err)
	}
	stored := make(json.RawMessage, len(raw))
	copy(stored, raw)
	return &Card{
		id:        id,
		oracleID:  oracleID,
		data:      data,
		raw:       stored,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the print identity.
func (c *Card) ID() PrintID { return c.id }

// OracleID returns the oracle identity.
func (c *Card) OracleID() OracleID { return c.oracleID }

// RawJSON returns the stored Scryfall JSON document.
func (c *Card) RawJSON() json.RawMessage { return c.raw }

// UpdatedAt returns the time the card row was last refreshed.
func (c *Card) UpdatedAt() time.Time { return c.updatedAt }

// Names returns the card's face names. A single-faced card has one name;
// a double-faced card name like "Fire // Ice" splits into both faces.
func (c *Card) Names() []string {
	names := strings.Split(c.data.Name, " // ")
	if len(names) == 0 {
		return []string{c.data.Name}
	}
	return names
}

// CombinedName returns the full card name with all faces joined.
func (c *Card) CombinedName() string { return c.data.Name }

// Lang returns the card's printed language code.
func (c *Card) Lang() string { return c.data.Lang }

// ReleasedAt returns the printing's release date string (YYYY-MM-DD).
func (c *Card) ReleasedAt() string { return c.data.ReleasedAt }

// CollectorNumber returns the printing's collector number.
func (c *Card) CollectorNumber() string { return c.data.CollectorNumber }

// FullArt reports whether the printing's artwork spans the whole face.
func (c *Card) FullArt() bool { return c.data.FullArt }

// SetType returns the printing's set type ("funny" marks un-sets).
func (c *Card) SetType() string { return c.data.SetType }

// TypeLine returns the card's type line.
func (c *Card) TypeLine() string { return c.data.TypeLine }

// OracleText returns the card's rules text. Multi-faced cards concatenate
// every face's text so substring checks see all faces.
func (c *Card) OracleText() string {
	if c.data.OracleText != "" || len(c.data.CardFaces) == 0 {
		return c.data.OracleText
	}
	texts := make([]string, 0, len(c.data.CardFaces))
	for _, face := range c.data.CardFaces {
		texts = append(texts, face.OracleText)
	}
	return strings.Join(texts, "\n\n")
}

// ColorIdentity returns the card's color identity letters.
func (c *Card) ColorIdentity() []string { return c.data.ColorIdentity }

// LegalIn reports whether the card is legal in the named format.
func (c *Card) LegalIn(format string) bool {
	return c.data.Legalities[format] == "legal"
}

// RelatedParts returns the card's related-parts edges. Entries with
// malformed IDs are skipped.
func (c *Card) RelatedParts() []RelatedPart {
	if len(c.data.AllParts) == 0 {
		return nil
	}
	parts := make([]RelatedPart, 0, len(c.data.AllParts))
	for _, part := range c.data.AllParts {
		id, err := ParsePrintID(part.ID)
		if err != nil {
			continue
		}
		parts = append(parts, RelatedPart{
			ID:   id,
			Kind: RelationKind(part.Component),
			Name: part.Name,
		})
	}
	return parts
}

// Description builds the human-readable card summary shown in Tabletop
// Simulator: mana cost, type line, and rules text separated by blank lines.
func (c *Card) Description() string {
	sections := make([]string, 0, 3)
	for _, section := range []string{c.data.ManaCost, c.data.TypeLine, c.OracleText()} {
		if strings.TrimSpace(section) != "" {
			sections = append(sections, section)
		}
	}
	return strings.Join(sections, "\n\n")
}
