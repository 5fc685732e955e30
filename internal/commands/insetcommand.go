package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/jo-hoe/appicon/internal/commandstructure"
	"golang.org/x/image/draw"
)

// InsetParams represents typed parameters for inset command
type InsetParams struct {
	// Percent of the edge length left empty on each side
	Percent float64
}

// NewInsetParamsFromMap creates InsetParams from a generic map
func NewInsetParamsFromMap(params map[string]any) (*InsetParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"percent"}); err != nil {
		return nil, err
	}

	percent := commandstructure.GetFloatParam(params, "percent", -1)
	if percent < 0 || percent >= 50 {
		return nil, fmt.Errorf("percent must be in [0, 50), got %v", params["percent"])
	}

	return &InsetParams{Percent: percent}, nil
}

// InsetCommand shrinks the artwork and centers it on a transparent canvas of
// the original size, e.g. to keep a logo inside the adaptive icon safe zone.
type InsetCommand struct {
	name   string
	params *InsetParams
}

// NewInsetCommand creates a new inset command from configuration parameters
func NewInsetCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewInsetParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &InsetCommand{
		name:   "InsetCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *InsetCommand) Name() string {
	return c.name
}

// GetParams returns the typed parameters
func (c *InsetCommand) GetParams() *InsetParams {
	return c.params
}

// Execute scales the image down by the inset and centers it
func (c *InsetCommand) Execute(imageData []byte) ([]byte, error) {
	if c.params.Percent == 0 {
		return imageData, nil
	}

	img, err := decodePNG(imageData)
	if err != nil {
		slog.Error("InsetCommand: failed to decode PNG image", "error", err)
		return nil, fmt.Errorf("failed to decode PNG image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	factor := 1 - 2*c.params.Percent/100
	scaledWidth := max(1, int(math.Round(float64(width)*factor)))
	scaledHeight := max(1, int(math.Round(float64(height)*factor)))
	offsetX, offsetY := computeCenterOffset(width, height, scaledWidth, scaledHeight)

	slog.Debug("InsetCommand: insetting image",
		"percent", c.params.Percent,
		"scaled_width", scaledWidth,
		"scaled_height", scaledHeight,
		"offset_x", offsetX,
		"offset_y", offsetY)

	dst := createTargetCanvas(width, height, color.Transparent)
	target := image.Rect(offsetX, offsetY, offsetX+scaledWidth, offsetY+scaledHeight)
	draw.CatmullRom.Scale(dst, target, img, bounds, draw.Over, nil)

	out, err := encodePNG(dst)
	if err != nil {
		slog.Error("InsetCommand: failed to encode image", "error", err)
		return nil, fmt.Errorf("failed to encode inset PNG image: %w", err)
	}
	return out, nil
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("InsetCommand", NewInsetCommand); err != nil {
		panic(fmt.Sprintf("failed to register InsetCommand: %v", err))
	}
}
