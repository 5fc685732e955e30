package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func decodePNGFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Expected %s to exist: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode %s: %v", path, err)
	}
	return img
}

func TestRun_Trend(t *testing.T) {
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--out", out, "--size", "256"}, &stdout, &stderr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	full := decodePNGFile(t, filepath.Join(out, "app_icon.png"))
	foreground := decodePNGFile(t, filepath.Join(out, "app_icon_foreground.png"))

	if full.Bounds().Dx() != 256 || foreground.Bounds().Dx() != 256 {
		t.Fatalf("Expected 256px icons, got %v and %v", full.Bounds(), foreground.Bounds())
	}

	if _, _, _, a := full.At(2, 2).RGBA(); a != 0xffff {
		t.Errorf("Expected opaque background in full icon, got alpha %d", a)
	}
	if _, _, _, a := foreground.At(2, 2).RGBA(); a != 0 {
		t.Errorf("Expected transparent background in foreground icon, got alpha %d", a)
	}

	// Disc center below the arrow is identical in both modes
	fr, fg, fb, fa := full.At(128, 150).RGBA()
	gr, gg, gb, ga := foreground.At(128, 150).RGBA()
	if fr != gr || fg != gg || fb != gb || fa != ga {
		t.Errorf("Expected identical geometry, got %v and %v", full.At(128, 150), foreground.At(128, 150))
	}
}

func TestRun_ChartNativeSize(t *testing.T) {
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--design", "chart", "-o", out}, &stdout, &stderr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	img := decodePNGFile(t, filepath.Join(out, "icon.png"))
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("Expected 32x32 icon, got %v", img.Bounds())
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("Expected transparent corner, got alpha %d", a)
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown design", args: []string{"--design", "spiral"}},
		{name: "negative size", args: []string{"--size", "-1"}},
		{name: "positional", args: []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); !errors.Is(err, ErrUsage) {
				t.Errorf("Expected ErrUsage, got %v", err)
			}
		})
	}
}
