// Package tts turns assembled piles and rendered page images into the
// saved-object JSON document Tabletop Simulator loads.
package tts
