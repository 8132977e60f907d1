package render

import (
	"image"
	"image/color"
	"image/draw"

	"ttsdeck/internal/media"
	"ttsdeck/internal/scryfall"
)

// Canonical card cell size in pixels, matching Scryfall's large rendition
// aspect ratio.
const (
	CardWidth  = 672
	CardHeight = 936
)

// pageSizes are the valid page dimensions in card cells, smallest first.
// One cell per page is reserved for the card back image.
var pageSizes = [...][2]int{
	{2, 2}, {3, 2}, {4, 3}, {5, 4}, {6, 4}, {7, 5}, {8, 6}, {9, 6},
}

// PageSize picks the page dimensions for an expected remaining-card count:
// the first pair whose capacity (minus the reserved back cell) exceeds n,
// falling back to the maximum 10x7 page.
func PageSize(n int) (width, height int) {
	for _, size := range pageSizes {
		if n < size[0]*size[1]-1 {
			return size[0], size[1]
		}
	}
	return 10, 7
}

// EncodeDeckID encodes a placement as the numeric deck id the TTS format
// uses: 100*(page+1) + slot, with 0-based page index and slot.
func EncodeDeckID(pageIndex, slot int) int {
	return 100*(pageIndex+1) + slot
}

// Page is a sprite sheet under construction. The last row-major cell
// always holds the card back placeholder and is never assigned to a card.
type Page struct {
	width   int
	height  int
	img     *image.RGBA
	mapping map[scryfall.PrintID]int
}

// NewPage creates a page sized for the expected number of remaining cards
// and stamps the back image into the reserved cell.
func NewPage(expectedCards int, back image.Image) *Page {
	width, height := PageSize(expectedCards)
	page := &Page{
		width:   width,
		height:  height,
		img:     image.NewRGBA(image.Rect(0, 0, width*CardWidth, height*CardHeight)),
		mapping: make(map[scryfall.PrintID]int, width*height-1),
	}
	page.compose(back, height-1, width-1)
	return page
}

// Capacity returns the number of assignable cells on the page.
func (p *Page) Capacity() int { return p.width*p.height - 1 }

// Full reports whether every assignable cell is occupied.
func (p *Page) Full() bool { return len(p.mapping) >= p.Capacity() }

// Place composites a card image into the next free cell and records the
// print identity's slot index.
func (p *Page) Place(id scryfall.PrintID, card image.Image) int {
	slot := len(p.mapping)
	row := slot / p.width
	column := slot % p.width
	p.compose(card, row, column)
	p.mapping[id] = slot
	return slot
}

// Placed returns the number of cards on the page.
func (p *Page) Placed() int { return len(p.mapping) }

func (p *Page) compose(img image.Image, row, column int) {
	cell := image.Rect(
		column*CardWidth,
		row*CardHeight,
		(column+1)*CardWidth,
		(row+1)*CardHeight,
	)
	draw.Draw(p.img, cell, img, img.Bounds().Min, draw.Src)
}

// Image returns the page raster buffer.
func (p *Page) Image() *image.RGBA { return p.img }

// RenderedPage is a finalized page whose raster has been persisted to the
// media store and replaced by a stable reference.
type RenderedPage struct {
	Width   int
	Height  int
	File    media.Ref
	Mapping map[scryfall.PrintID]int
}

// DefaultBackImage returns the placeholder stamped into every page's
// reserved cell: a flat dark card-sized rectangle.
func DefaultBackImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 26, G: 26, B: 32, A: 255}), image.Point{}, draw.Src)
	return img
}
