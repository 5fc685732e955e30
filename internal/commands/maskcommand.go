package commands

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strings"

	"github.com/jo-hoe/appicon/internal/commandstructure"
	"github.com/srwiley/rasterx"
)

// Mask shapes
const (
	MaskCircle  = "circle"
	MaskRounded = "rounded"
)

// DefaultMaskRadius is the corner radius of the rounded shape in percent of the edge length
const DefaultMaskRadius = 22.0

// MaskParams represents typed parameters for mask command
type MaskParams struct {
	Shape string
	// Radius of the rounded corners in percent of the edge length
	Radius float64
}

// NewMaskParamsFromMap creates MaskParams from a generic map
func NewMaskParamsFromMap(params map[string]any) (*MaskParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"shape"}); err != nil {
		return nil, err
	}

	shape := strings.ToLower(commandstructure.GetStringParam(params, "shape", ""))
	if shape != MaskCircle && shape != MaskRounded {
		return nil, fmt.Errorf("shape must be %s or %s, got %v", MaskCircle, MaskRounded, params["shape"])
	}

	radius := commandstructure.GetFloatParam(params, "radius", DefaultMaskRadius)
	if radius < 0 || radius > 50 {
		return nil, fmt.Errorf("radius must be in [0, 50], got %v", radius)
	}

	return &MaskParams{
		Shape:  shape,
		Radius: radius,
	}, nil
}

// MaskCommand clips the icon to a circle or a rounded square. Pixels outside
// the shape become transparent, edges are anti-aliased.
type MaskCommand struct {
	name   string
	params *MaskParams
}

// NewMaskCommand creates a new mask command from configuration parameters
func NewMaskCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewMaskParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &MaskCommand{
		name:   "MaskCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *MaskCommand) Name() string {
	return c.name
}

// GetParams returns the typed parameters
func (c *MaskCommand) GetParams() *MaskParams {
	return c.params
}

// Execute applies the shape mask
func (c *MaskCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := decodePNG(imageData)
	if err != nil {
		slog.Error("MaskCommand: failed to decode PNG image", "error", err)
		return nil, fmt.Errorf("failed to decode PNG image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	slog.Debug("MaskCommand: masking image",
		"shape", c.params.Shape,
		"radius_percent", c.params.Radius,
		"width", width,
		"height", height)

	mask := c.buildMask(width, height)
	dst := createTargetCanvas(width, height, color.Transparent)
	draw.DrawMask(dst, dst.Bounds(), img, bounds.Min, mask, image.Point{}, draw.Over)

	out, err := encodePNG(dst)
	if err != nil {
		slog.Error("MaskCommand: failed to encode image", "error", err)
		return nil, fmt.Errorf("failed to encode masked PNG image: %w", err)
	}
	return out, nil
}

// buildMask rasterizes the shape into an alpha mask of the image size.
func (c *MaskCommand) buildMask(width, height int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, mask, mask.Bounds())
	filler := rasterx.NewFiller(width, height, scanner)
	filler.SetColor(color.Opaque)

	w, h := float64(width), float64(height)
	switch c.params.Shape {
	case MaskCircle:
		rasterx.AddEllipse(w/2, h/2, w/2, h/2, 0, filler)
	default:
		r := min(w, h) * c.params.Radius / 100
		rasterx.AddRoundRect(0, 0, w, h, r, r, 0, rasterx.RoundGap, filler)
	}
	filler.Draw()
	return mask
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("MaskCommand", NewMaskCommand); err != nil {
		panic(fmt.Sprintf("failed to register MaskCommand: %v", err))
	}
}
