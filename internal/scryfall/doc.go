// Package scryfall owns the card data model and its local persistence.
//
// Cards are immutable values wrapping the raw Scryfall card JSON plus the
// timestamp of their last refresh. The package provides the SQLite-backed
// card database (lookups by print and oracle identity, legality and color
// identity queries, bulk imports), the oracle-to-printing expansion used by
// deck assembly, and a rate-limited API client for card image downloads.
package scryfall
