package validation

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dmitrymomot/uploads/pkg/upload"
)

type dimensionsRule struct {
	width  int
	height int
}

// Dimensions requires an image of exactly width x height pixels.
// Files that cannot be decoded as an image fail validation.
func Dimensions(width, height int) Rule {
	return dimensionsRule{width: width, height: height}
}

func (r dimensionsRule) Validate(f *upload.File) error {
	src, err := os.Open(f.Path())
	if err != nil {
		return fail(f, "cannot open image: %v", err)
	}
	defer func() { _ = src.Close() }()

	// DecodeConfig reads only the header
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return fail(f, "cannot read image dimensions: %v", err)
	}

	if cfg.Width != r.width {
		return fail(f, "image width %dpx does not match required %dpx", cfg.Width, r.width)
	}
	if cfg.Height != r.height {
		return fail(f, "image height %dpx does not match required %dpx", cfg.Height, r.height)
	}
	return nil
}
