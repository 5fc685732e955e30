package source

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// SVGSource renders a vector image with oksvg and rasterx.
type SVGSource struct {
	name string
	data []byte
}

// NewSVGSource validates the SVG once so that a broken file fails before any
// output is written. Documents without a viewBox or width/height have no
// extent to scale from and are rejected.
func NewSVGSource(name string, data []byte) (*SVGSource, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse SVG %s: %v", ErrInvalidSource, name, err)
	}
	if !fitViewBox(icon, data) {
		return nil, fmt.Errorf("%w: SVG %s has neither a viewBox nor width and height", ErrInvalidSource, name)
	}
	return &SVGSource{name: name, data: data}, nil
}

// Name returns the source name
func (s *SVGSource) Name() string {
	return s.name
}

// Render rasterizes the SVG into a transparent size x size canvas. The view box
// is fitted and centered, so square artwork fills the canvas exactly.
func (s *SVGSource) Render(size int) (image.Image, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	// SetTarget mutates the icon, so every render parses its own copy
	icon, err := oksvg.ReadIconStream(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	if !fitViewBox(icon, s.data) {
		return nil, fmt.Errorf("%w: SVG %s has no extent", ErrInvalidSource, s.name)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	scale := float64(size) / max(w, h)
	outW := w * scale
	outH := h * scale
	offsetX := (float64(size) - outW) / 2
	offsetY := (float64(size) - outH) / 2

	slog.Debug("rendering SVG",
		"source", s.name,
		"size", size,
		"view_box_width", w,
		"view_box_height", h,
		"offset_x", offsetX,
		"offset_y", offsetY)

	icon.SetTarget(offsetX, offsetY, outW, outH)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// fitViewBox makes sure the icon has a positive view box. oksvg already falls
// back to width and height; attributes it cannot read are retried from the
// raw start tag. Reports false when no extent is known.
func fitViewBox(icon *oksvg.SvgIcon, data []byte) bool {
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		return true
	}
	w, h, ok := parseSvgExplicitSize(data)
	if !ok {
		return false
	}
	icon.ViewBox.X, icon.ViewBox.Y = 0, 0
	icon.ViewBox.W, icon.ViewBox.H = float64(w), float64(h)
	return true
}

// parseSvgExplicitSize reads the width and height attributes of the <svg> start tag.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	s := strings.ToLower(string(data[:min(len(data), 8192)]))
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	tag, _, _ := strings.Cut(s[i:], ">")

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if !wOk || !hOk {
		return 0, 0, false
	}
	return w, h, true
}

// parseNumericAttr returns the leading integer of a quoted attribute, so
// width="64px" yields 64.
func parseNumericAttr(tag, attr string) (int, bool) {
	_, rest, found := strings.Cut(tag, " "+attr+"=")
	if !found || rest == "" || (rest[0] != '"' && rest[0] != '\'') {
		return 0, false
	}
	val, _, _ := strings.Cut(rest[1:], rest[:1])
	digits := strings.IndexFunc(val, func(r rune) bool { return r < '0' || r > '9' })
	if digits >= 0 {
		val = val[:digits]
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
