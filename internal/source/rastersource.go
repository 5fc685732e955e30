package source

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RasterSource resamples a decoded bitmap. Non-square bitmaps are fitted and
// centered on a transparent canvas.
type RasterSource struct {
	name string
	img  image.Image
}

// NewRasterSource decodes data once, honoring EXIF orientation.
func NewRasterSource(name string, data []byte) (*RasterSource, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidSource, name, err)
	}
	slog.Debug("decoded raster source",
		"source", name,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	return &RasterSource{name: name, img: img}, nil
}

// Name returns the source name
func (s *RasterSource) Name() string {
	return s.name
}

// Render resamples the bitmap to size x size with a Lanczos filter.
func (s *RasterSource) Render(size int) (image.Image, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	b := s.img.Bounds()
	if b.Dx() == b.Dy() {
		return imaging.Resize(s.img, size, size, imaging.Lanczos), nil
	}

	// Resize keeps the aspect ratio when one dimension is 0. Fit would refuse to upscale.
	var fitted *image.NRGBA
	if b.Dx() > b.Dy() {
		fitted = imaging.Resize(s.img, size, 0, imaging.Lanczos)
	} else {
		fitted = imaging.Resize(s.img, 0, size, imaging.Lanczos)
	}
	canvas := imaging.New(size, size, color.NRGBA{})
	return imaging.PasteCenter(canvas, fitted), nil
}
