package testsupport

import (
	"path/filepath"
	"testing"

	"ttsdeck/internal/scryfall"
)

// MustOpenStore opens a card store in a temp directory and registers
// cleanup.
func MustOpenStore(t testing.TB) *scryfall.Store {
	t.Helper()

	store, err := scryfall.Open(filepath.Join(t.TempDir(), "cards.db"))
	if err != nil {
		t.Fatalf("scryfall.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
