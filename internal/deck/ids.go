package deck

import (
	"fmt"

	"github.com/google/uuid"
)

// ID identifies one deck.
type ID uuid.UUID

// NewID returns a fresh random deck identity.
func NewID() ID { return ID(uuid.New()) }

// ParseID parses a deck identity from its canonical UUID form.
func ParseID(value string) (ID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return ID{}, fmt.Errorf("parse deck id %q: %w", value, err)
	}
	return ID(id), nil
}

func (id ID) String() string { return uuid.UUID(id).String() }
