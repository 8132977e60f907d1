package scryfall

import (
	"fmt"

	"github.com/google/uuid"
)

// PrintID identifies one specific printing of a card (artwork/set/language).
type PrintID uuid.UUID

// OracleID identifies the rules identity shared by every printing of a card.
type OracleID uuid.UUID

// ParsePrintID parses a print identity from its canonical UUID form.
func ParsePrintID(value string) (PrintID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return PrintID{}, fmt.Errorf("parse print id %q: %w", value, err)
	}
	return PrintID(id), nil
}

// ParseOracleID parses an oracle identity from its canonical UUID form.
func ParseOracleID(value string) (OracleID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return OracleID{}, fmt.Errorf("parse oracle id %q: %w", value, err)
	}
	return OracleID(id), nil
}

func (id PrintID) String() string { return uuid.UUID(id).String() }

func (id OracleID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the identity is the zero UUID.
func (id PrintID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// IsZero reports whether the identity is the zero UUID.
func (id OracleID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
