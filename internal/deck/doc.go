// Package deck turns an abstract decklist into the ordered card piles the
// renderer consumes.
//
// Assembly expands oracle identities into concrete printings, separates
// commanders (auto-detected for 100-card commander-legal lists when the
// loader did not already separate them), discovers related token and meld
// cards by graph traversal, and produces up to four piles: commander, main
// deck, sideboard, and tokens.
package deck
