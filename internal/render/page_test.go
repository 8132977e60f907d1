package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/uuid"

	"ttsdeck/internal/scryfall"
)

func TestPageSizeTable(t *testing.T) {
	tests := []struct {
		n      int
		width  int
		height int
	}{
		{0, 2, 2},
		{2, 2, 2},
		{3, 3, 2},
		{4, 3, 2},
		{11, 5, 4},
		{18, 5, 4},
		{19, 6, 4},
		{52, 9, 6},
		{53, 10, 7},
		{100, 10, 7},
	}
	for _, tt := range tests {
		w, h := PageSize(tt.n)
		if w != tt.width || h != tt.height {
			t.Errorf("PageSize(%d) = (%d,%d), want (%d,%d)", tt.n, w, h, tt.width, tt.height)
		}
	}
}

func TestEncodeDeckID(t *testing.T) {
	if got := EncodeDeckID(1, 0); got != 200 {
		t.Errorf("EncodeDeckID(1,0) = %d, want 200", got)
	}
	if got := EncodeDeckID(0, 5); got != 105 {
		t.Errorf("EncodeDeckID(0,5) = %d, want 105", got)
	}
}

func mustPrintID(t *testing.T) scryfall.PrintID {
	t.Helper()
	id, err := scryfall.ParsePrintID(uuid.NewString())
	if err != nil {
		t.Fatalf("ParsePrintID: %v", err)
	}
	return id
}

func solidCard(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	for y := 0; y < CardHeight; y++ {
		for x := 0; x < CardWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPagePlacesCardsRowMajor(t *testing.T) {
	page := NewPage(3, DefaultBackImage())
	if page.width != 3 || page.height != 2 {
		t.Fatalf("page sized (%d,%d), want (3,2)", page.width, page.height)
	}
	if page.Capacity() != 5 {
		t.Fatalf("capacity = %d, want 5", page.Capacity())
	}

	red := color.RGBA{R: 255, A: 255}
	var lastSlot int
	for i := 0; i < page.Capacity(); i++ {
		lastSlot = page.Place(mustPrintID(t), solidCard(red))
		if lastSlot != i {
			t.Errorf("slot %d assigned out of order as %d", i, lastSlot)
		}
	}
	if !page.Full() {
		t.Error("page not full after filling every assignable cell")
	}

	// Slot 4 is row 1, column 1: its top-left pixel must be red.
	got := page.Image().RGBAAt(1*CardWidth, 1*CardHeight)
	if got != red {
		t.Errorf("cell pixel = %v, want %v", got, red)
	}
}

func TestPageReservesBackCell(t *testing.T) {
	back := solidCard(color.RGBA{G: 255, A: 255})
	page := NewPage(3, back)

	// The reserved cell is the last row-major cell, never assignable.
	x := (page.width - 1) * CardWidth
	y := (page.height - 1) * CardHeight
	if got := page.Image().RGBAAt(x, y); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("back cell pixel = %v", got)
	}

	for i := 0; i < page.Capacity(); i++ {
		page.Place(mustPrintID(t), solidCard(color.RGBA{B: 255, A: 255}))
	}
	if got := page.Image().RGBAAt(x, y); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("back cell overwritten after filling page: %v", got)
	}
}
