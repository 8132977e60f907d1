package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// fitCardSize scales a card image to the canonical cell dimensions.
// Images already at the right size pass through untouched.
func fitCardSize(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == CardWidth && bounds.Dy() == CardHeight {
		return img
	}
	resized := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, xdraw.Src, nil)
	return resized
}
