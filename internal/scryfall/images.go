package scryfall

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
)

// jpegQuality matches the quality Scryfall serves for its jpg renditions
// closely enough that recompression artifacts stay invisible on a page.
const jpegQuality = 92

func writeImageFile(path string, format ImageFormat, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	var encodeErr error
	switch format {
	case ImagePNG:
		encodeErr = png.Encode(file, img)
	default:
		encodeErr = jpeg.Encode(file, img, &jpeg.Options{Quality: jpegQuality})
	}

	if closeErr := file.Close(); encodeErr == nil {
		encodeErr = closeErr
	}
	if encodeErr != nil {
		return fmt.Errorf("encode %s: %w", path, encodeErr)
	}
	return nil
}
