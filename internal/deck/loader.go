package deck

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ttsdeck/internal/scryfall"
)

// NameResolver resolves display names to oracle identities.
type NameResolver interface {
	OracleIDByName(ctx context.Context, name string) (scryfall.OracleID, error)
}

// section headers recognized in plain-text decklists, compared
// case-insensitively with trailing colons stripped.
var sectionNames = map[string]string{
	"commander":  "commanders",
	"commanders": "commanders",
	"deck":       "main",
	"main":       "main",
	"maindeck":   "main",
	"mainboard":  "main",
	"sideboard":  "sideboard",
	"sb":         "sideboard",
}

// ParseTextList reads a plain-text decklist in the common
// "<count> <card name>" export format. A blank line or a recognized
// section header switches to the sideboard; "Commander" headers mark the
// cards that follow as commanders. Card names are resolved against r.
func ParseTextList(ctx context.Context, r io.Reader, title string, resolver NameResolver) (*List, error) {
	list := &List{
		Title:      title,
		Commanders: make(map[scryfall.OracleID]string),
		MainDeck:   make(map[scryfall.OracleID]Line),
		Sideboard:  make(map[scryfall.OracleID]Line),
	}

	section := "main"
	sawCards := false
	lineNumber := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			// A blank line after the main deck starts the sideboard in
			// the MTGO export format.
			if sawCards && section == "main" {
				section = "sideboard"
			}
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if name, ok := sectionNames[strings.ToLower(strings.TrimSuffix(line, ":"))]; ok {
			section = name
			continue
		}

		count, name, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		oracleID, err := resolver.OracleIDByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("line %d: card %q: %w", lineNumber, name, err)
		}
		sawCards = true

		switch section {
		case "commanders":
			list.Commanders[oracleID] = name
		case "sideboard":
			addLine(list.Sideboard, oracleID, name, count)
		default:
			addLine(list.MainDeck, oracleID, name, count)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}
	if len(list.MainDeck) == 0 && len(list.Commanders) == 0 {
		return nil, ErrEmptyDeck
	}
	return list, nil
}

// parseLine splits "4 Lightning Bolt" or "4x Lightning Bolt" into count
// and name. A bare card name counts as one copy.
func parseLine(line string) (int, string, error) {
	first, rest, found := strings.Cut(line, " ")
	if found {
		countText := strings.TrimSuffix(strings.ToLower(first), "x")
		if count, err := strconv.Atoi(countText); err == nil {
			if count < 1 {
				return 0, "", fmt.Errorf("invalid count %q", first)
			}
			name := strings.TrimSpace(rest)
			if name == "" {
				return 0, "", fmt.Errorf("missing card name after count %q", first)
			}
			return count, name, nil
		}
	}
	return 1, line, nil
}

func addLine(lines map[scryfall.OracleID]Line, oracleID scryfall.OracleID, name string, count int) {
	existing := lines[oracleID]
	lines[oracleID] = Line{Name: name, Count: existing.Count + count}
}
