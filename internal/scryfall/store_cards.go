package scryfall

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// SaveCardJSON stores or replaces one card document, extracting the columns
// used for lookups and ordering. Cards are replaced wholesale on refresh.
func (s *Store) SaveCardJSON(ctx context.Context, raw []byte) (*Card, error) {
	now := time.Now().UTC()
	card, err := NewCard(raw, now)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cards (id, oracle_id, name, lang, released_at, collector_number, json, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT (id) DO UPDATE SET
             oracle_id = excluded.oracle_id,
             name = excluded.name,
             lang = excluded.lang,
             released_at = excluded.released_at,
             collector_number = excluded.collector_number,
             json = excluded.json,
             updated_at = excluded.updated_at`,
		card.ID().String(),
		card.OracleID().String(),
		card.CombinedName(),
		card.Lang(),
		card.ReleasedAt(),
		card.CollectorNumber(),
		string(card.RawJSON()),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("save card %s: %w", card.ID(), err)
	}
	return card, nil
}

// CardByID looks up one card by print identity.
func (s *Store) CardByID(ctx context.Context, id PrintID) (*Card, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT json, updated_at FROM cards WHERE id = ?", id.String())
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", id, err)
	}
	return card, nil
}

// PrintingsByOracleID returns every stored printing of the oracle identity
// in the requested language, newest release first, collector number
// ascending within a release date.
func (s *Store) PrintingsByOracleID(ctx context.Context, oracleID OracleID, lang string) ([]*Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json, updated_at FROM cards
         WHERE oracle_id = ? AND lang = ?
         ORDER BY released_at DESC, collector_number ASC`,
		oracleID.String(), lang)
	if err != nil {
		return nil, fmt.Errorf("printings for oracle %s: %w", oracleID, err)
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("printings for oracle %s: %w", oracleID, err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("printings for oracle %s: %w", oracleID, err)
	}
	return cards, nil
}

// OracleIDByName resolves a display name to an oracle identity. The match
// is case-insensitive and accepts either a full combined name or the name
// of the front face.
func (s *Store) OracleIDByName(ctx context.Context, name string) (OracleID, error) {
	trimmed := strings.TrimSpace(name)
	row := s.db.QueryRowContext(ctx,
		`SELECT oracle_id FROM cards
         WHERE name = ? COLLATE NOCASE
            OR name LIKE ? COLLATE NOCASE
         LIMIT 1`,
		trimmed, trimmed+" // %")
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OracleID{}, fmt.Errorf("card named %q: %w", name, ErrNotFound)
		}
		return OracleID{}, fmt.Errorf("card named %q: %w", name, err)
	}
	return ParseOracleID(raw)
}

// CheckLegal reports whether any printing of the oracle identity is legal
// in the named format.
func (s *Store) CheckLegal(ctx context.Context, oracleID OracleID, format string) (bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT json, updated_at FROM cards WHERE oracle_id = ?", oracleID.String())
	if err != nil {
		return false, fmt.Errorf("legality for oracle %s: %w", oracleID, err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return false, fmt.Errorf("legality for oracle %s: %w", oracleID, err)
		}
		found = true
		if card.LegalIn(format) {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("legality for oracle %s: %w", oracleID, err)
	}
	if !found {
		return false, fmt.Errorf("legality for oracle %s: %w", oracleID, ErrNotFound)
	}
	return false, nil
}

// ColorIdentityUnion returns the union of the color identities of all
// printings of the given oracle identities.
func (s *Store) ColorIdentityUnion(ctx context.Context, oracleIDs []OracleID) (map[string]struct{}, error) {
	colors := make(map[string]struct{})
	for _, oracleID := range oracleIDs {
		rows, err := s.db.QueryContext(ctx,
			"SELECT json, updated_at FROM cards WHERE oracle_id = ?", oracleID.String())
		if err != nil {
			return nil, fmt.Errorf("color identity for oracle %s: %w", oracleID, err)
		}
		for rows.Next() {
			card, err := scanCard(rows)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("color identity for oracle %s: %w", oracleID, err)
			}
			for _, color := range card.ColorIdentity() {
				colors[color] = struct{}{}
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("color identity for oracle %s: %w", oracleID, err)
		}
	}
	return colors, nil
}

// CardCount returns the number of stored card rows.
func (s *Store) CardCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM cards").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*Card, error) {
	var raw string
	var updatedAtRaw string
	if err := row.Scan(&raw, &updatedAtRaw); err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updatedAtRaw)
	if err != nil {
		updatedAt = time.Time{}
	}
	return NewCard([]byte(raw), updatedAt)
}

// ImportBulkData streams a Scryfall bulk-data JSON array into the store.
// Non-card or malformed entries are counted and skipped, matching the
// forgiving behavior of bulk imports. Returns (imported, skipped).
func (s *Store) ImportBulkData(ctx context.Context, r io.Reader) (int, int, error) {
	decoder := json.NewDecoder(r)

	// The bulk file is one giant JSON array of card objects.
	if _, err := decoder.Token(); err != nil {
		return 0, 0, fmt.Errorf("read bulk data opening token: %w", err)
	}

	imported, skipped := 0, 0
	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return imported, skipped, err
		}
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return imported, skipped, fmt.Errorf("decode bulk card %d: %w", imported+skipped, err)
		}
		if _, err := s.SaveCardJSON(ctx, raw); err != nil {
			skipped++
			continue
		}
		imported++
	}
	if _, err := decoder.Token(); err != nil {
		return imported, skipped, fmt.Errorf("read bulk data closing token: %w", err)
	}
	return imported, skipped, nil
}
