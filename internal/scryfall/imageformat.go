package scryfall

// ImageFormat is one of Scryfall's hosted image renditions. Formats form an
// explicit downgrade chain walked when a download fails: PNG → Large →
// Normal → Small.
type ImageFormat int

const (
	ImagePNG ImageFormat = iota
	ImageLarge
	ImageNormal
	ImageSmall
)

// String returns the Scryfall API version parameter for the format.
func (f ImageFormat) String() string {
	switch f {
	case ImagePNG:
		return "png"
	case ImageLarge:
		return "large"
	case ImageNormal:
		return "normal"
	case ImageSmall:
		return "small"
	default:
		return "unknown"
	}
}

// Next returns the next format in the downgrade chain and whether one
// exists.
func (f ImageFormat) Next() (ImageFormat, bool) {
	switch f {
	case ImagePNG:
		return ImageLarge, true
	case ImageLarge:
		return ImageNormal, true
	case ImageNormal:
		return ImageSmall, true
	default:
		return f, false
	}
}

// ext returns the on-disk cache extension for the format.
func (f ImageFormat) ext() string {
	if f == ImagePNG {
		return "png"
	}
	return "jpg"
}
