package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrMissingSource is returned when the source file does not exist.
	ErrMissingSource = errors.New("source file not found")
	// ErrInvalidSource is returned when the source exists but cannot be parsed.
	ErrInvalidSource = errors.New("invalid source image")
	// ErrInvalidSize is returned by Render for non-positive sizes.
	ErrInvalidSize = errors.New("invalid render size")
)

// Source supplies a square raster rendering of an image at any pixel size.
// Implementations must be safe for concurrent Render calls.
type Source interface {
	Name() string
	Render(size int) (image.Image, error)
}

// Load reads the file at path and returns the matching Source. SVG files are
// detected by extension or content, everything else is decoded as raster.
func Load(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}

	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".svg") || isSVGData(data) {
		slog.Debug("loading vector source", "path", path, "size_bytes", len(data))
		src, err := NewSVGSource(name, data)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	slog.Debug("loading raster source", "path", path, "size_bytes", len(data))
	src, err := NewRasterSource(name, data)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func checkSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, size, size)
	}
	return nil
}

// isSVGData reports whether an <svg start tag appears in the first 4KB, which
// covers files that open with an XML prolog, comments or a doctype.
func isSVGData(data []byte) bool {
	header := bytes.ToLower(data[:min(len(data), 4096)])
	return bytes.Contains(header, []byte("<svg"))
}
