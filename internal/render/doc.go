// Package render builds the sprite-sheet page images for a deck and
// coordinates renders process-wide.
//
// Cards are fetched and resized under bounded concurrency, packed row-major
// into pages sized from a fixed table, and persisted to the media store.
// Each placed card receives a deck id of 100*(page+1)+slot; that numbering
// is the contract the Tabletop Simulator output consumes. The Coordinator
// serializes renders so peak memory stays bounded to one render's page
// buffers.
package render
